package cmd

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/genesis-community/genesis/planset"
)

// loadMetadata reads and unmarshals the already-merged kit.yml at path
// (§6's Kit metadata schema) into a planset.Metadata ready for Parse.
func loadMetadata(path string) (planset.Metadata, error) {
	var meta planset.Metadata
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}
