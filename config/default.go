package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/color"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/style"
)

// Field is one registered configuration entry.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for "subgate config info".
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Subgate + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default is the registry of every known field, keyed by name.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to SUBGATE_* variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.BackendBaseURL, "", "Base URL of the media CMS, e.g. http://nas.local:9527")
	register(key.BackendProvider, constant.DefaultProvider, "Resource provider segment used in /api/<provider>/... routes")
	register(key.BackendTimeout, 30, "Timeout for a single backend call, in seconds")
	register(key.InterceptPath, constant.SubmitPath, "Path of the subscription call that is vetoed and replaced by the resource browser")
	register(key.ProxyListen, "127.0.0.1:8095", "Address the local reverse proxy listens on")
	register(key.ProxyUpstream, "", "Web application proxied by subgate.\nFalls back to backend.base_url when empty")
	register(key.AuthToken, "", "Bearer token used when the system keyring has none.\nPrefer \"subgate auth set\"")
	register(key.NetworkChromeTLS, false, "Present a Chrome TLS fingerprint to HTTPS upstreams")
	register(key.MetricsListen, "", "Address for the prometheus /metrics endpoint.\nDisabled when empty")
	register(key.HistorySave, true, "Keep a local journal of confirmed subscriptions and relays")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI")
	register(key.TUIShowURLs, true, "Show locators under list items")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable the background version check")
	register(key.CliVersionInterval, 60, "Minutes between two version checks")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
