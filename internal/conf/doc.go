// Package conf holds the settings of the hcp tool itself, as opposed to the
// INI files hcp reads on behalf of its users.
//
// # Usage
//
// The global Configuration variable is loaded at package initialization:
//
//	import "github.com/hcptools/hcp/internal/conf"
//
//	func main() {
//	    fmt.Println(conf.Configuration.LogLevel)
//	}
//
// For custom configuration loading, for example from the --config flag,
// use ConfigSource:
//
//	cs := &conf.ConfigSource{
//	    Path:      "/custom/path/config.toml",
//	    DropInDir: "/custom/path/config.toml.d",
//	}
//	config, err := cs.Read()
//
// # Load Order
//
//  1. Embedded defaults (default.toml)
//  2. Main config file: /etc/hcp/config.toml
//  3. Drop-in files: /etc/hcp/config.toml.d/*.toml, in lexicographic order
//
// Each layer is parsed into configDTO, whose pointer fields tell "not set"
// apart from "set to the zero value", and applied with Config.Update.
package conf
