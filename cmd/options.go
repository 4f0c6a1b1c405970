// Package cmd wires genesis's secret-lifecycle engine (planset/resolve/
// filter/engine) and its retained target/auth/tree/gen/x509 surface into
// an app.Runner, the same registerXCommands()-per-file split the teacher
// uses in its root-level cmd_*.go files.
package cmd

// Options is genesis's top-level flag/verb struct, parsed by go-cli the
// same way the teacher's main.go Options is. Only the lifecycle verbs and
// the retained subset of the teacher's surface are represented; verbs that
// implement the secret store itself (seal/unseal/init/rekey) or a bulk
// migration workflow have no place here (see DESIGN.md).
type Options struct {
	Insecure bool `cli:"-k, --insecure"`
	Version  bool `cli:"-v, --version"`
	Help     bool `cli:"-h, --help"`
	Clobber  bool `cli:"--clobber, --no-clobber"`
	Quiet    bool `cli:"--quiet"`

	UseTarget string `cli:"-T, --target" env:"GENESIS_STORE_TARGET"`
	RootCA    string `cli:"--root-ca" env:"GENESIS_ROOT_CA_PATH"`
	Kit       string `cli:"--kit" env:"GENESIS_KIT_METADATA"`
	Feature   []string `cli:"--feature"`

	HelpCommand    struct{} `cli:"help"`
	VersionCommand struct{} `cli:"version"`
	Envvars        struct{} `cli:"envvars"`

	Add struct {
		NoPrompt bool `cli:"--no-prompt, -y"`
	} `cli:"add"`

	Recreate struct {
		NoPrompt bool `cli:"--no-prompt, -y"`
	} `cli:"recreate"`

	Renew struct {
		NoPrompt bool   `cli:"--no-prompt, -y"`
		Subject  string `cli:"-s, --subject" env:"GENESIS_RENEW_SUBJECT"`
	} `cli:"renew"`

	Remove struct {
		NoPrompt bool `cli:"--no-prompt, -y"`
	} `cli:"remove"`

	Validate struct {
		JSON            bool `cli:"--json"`
		HideProblematic bool `cli:"--hide-problematic" env:"GENESIS_HIDE_PROBLEMATIC_SECRETS"`
	} `cli:"validate, check"`

	Paths struct {
		JSON bool `cli:"--json"`
	} `cli:"paths"`

	Get struct {
		Yaml bool `cli:"--yaml"`
	} `cli:"get, read, cat"`

	Set    struct{} `cli:"set, write"`
	Delete struct{} `cli:"delete, rm"`

	Tree struct {
		Quick bool `cli:"-q, --quick"`
	} `cli:"tree"`

	RawPaths struct{} `cli:"store-paths"`

	Target struct {
		JSON       bool `cli:"--json"`
		SkipVerify bool `cli:"-k, --skip-verify"`
		Delete     struct{} `cli:"delete, rm"`
	} `cli:"target"`

	Targets struct {
		JSON bool `cli:"--json"`
	} `cli:"targets"`

	Status struct{} `cli:"status"`
	WhoAmI struct {
		JSON bool `cli:"--json"`
	} `cli:"whoami"`

	Auth struct {
		Token       string `cli:"-t, --token"`
		RoleID      string `cli:"--role-id"`
		SecretID    string `cli:"--secret-id"`
		Username    string `cli:"-u, --username"`
		GithubToken string `cli:"--github-token"`
	} `cli:"auth, login"`

	Logout struct{} `cli:"logout"`

	Gen struct {
		Policy string `cli:"-p, --policy"`
		Length int    `cli:"-l, --length"`
	} `cli:"gen, auto, generate"`

	SSH     struct{} `cli:"ssh"`
	RSA     struct{} `cli:"rsa"`
	DHParam struct{} `cli:"dhparam, dhparams, dh"`
	UUID    struct{} `cli:"uuid"`

	X509 struct {
		Issue struct {
			CA       bool     `cli:"-A, --ca"`
			Subject  string   `cli:"-s, --subj, --subject"`
			Bits     int      `cli:"-b, --bits"`
			SignedBy string   `cli:"-i, --signed-by"`
			Name     []string `cli:"-n, --name"`
			TTL      string   `cli:"-t, --ttl"`
		} `cli:"issue"`

		Renew struct {
			Subject string `cli:"-s, --subj, --subject"`
		} `cli:"renew"`
	} `cli:"x509"`
}

// NewOptions builds an Options with the teacher's defaults carried over.
func NewOptions() *Options {
	opt := &Options{}
	opt.Gen.Policy = "a-zA-Z0-9"
	opt.Clobber = true
	opt.X509.Issue.Bits = 4096
	opt.Kit = "kit.yml"
	return opt
}
