package cmd

import "github.com/genesis-community/genesis/app"

// RegisterAll wires every genesis command onto r, mirroring the teacher's
// main.go's flat list of registerXCommands calls.
func RegisterAll(r *app.Runner, opt *Options, version string) {
	registerHelpCommands(r, opt, version)
	registerLifecycleCommands(r, opt)
	registerTargetCommands(r, opt)
	registerAuthCommands(r, opt)
	registerSecretCommands(r, opt)
	registerGenerateCommands(r, opt)
}
