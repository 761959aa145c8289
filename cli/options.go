package cli

import "github.com/viant/payroll"

type Options struct {
	payroll.ClientOptions
	ConfigURL string `short:"c" long:"config" description:"client options file URL (yaml)"`
	Email     string `short:"e" long:"email" description:"login email" env:"PAYROLL_EMAIL"`
	Password  string `short:"p" long:"password" description:"login password" env:"PAYROLL_PASSWORD"`
	Secret    string `short:"S" long:"secret" description:"encrypted basic credential with email as username, URL|key e.g. file://$HOME/.secret/payroll.json|blowfish://default"`
	Code      string `long:"code" description:"MFA verification code"`
	Debug     bool   `short:"d" long:"debug" description:"debug logging"`
	Args      struct {
		Command string `positional-arg-name:"command" description:"login, logout, status, get or delete" required:"yes" choice:"login" choice:"logout" choice:"status" choice:"get" choice:"delete"`
		Path    string `positional-arg-name:"path" description:"resource path for get and delete"`
	} `positional-args:"yes"`
}
