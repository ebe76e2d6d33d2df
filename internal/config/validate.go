package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ConfigError reports a bad config file or value. Line is set for errors that
// point into a YAML file; Key is set for errors about a single setting.
type ConfigError struct {
	Source  string
	Line    int
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Line > 0 && e.Key != "":
		return fmt.Sprintf("%s:%d: %s %s", e.Source, e.Line, e.Key, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
	case e.Key != "":
		return fmt.Sprintf("%s: %s %s", e.Source, e.Key, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
}

// yaml.v3 syntax errors read "yaml: line 5: could not find expected ':'".
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// checkYAML parses a config file and rejects syntax errors and keys chlog
// does not know, so typos such as "output-suffix" don't silently fall back
// to defaults.
func checkYAML(data []byte, source string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		cerr := &ConfigError{Source: source, Message: err.Error()}
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			cerr.Line, _ = strconv.Atoi(m[1])
			cerr.Message = m[2]
		}
		return cerr
	}

	// Empty or comment-only file.
	if len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return &ConfigError{Source: source, Line: root.Line, Message: "expected a mapping of settings"}
	}

	known := knownKeys()
	for i := 0; i < len(root.Content); i += 2 {
		key := root.Content[i]
		if _, ok := known[key.Value]; !ok {
			return &ConfigError{
				Source:  source,
				Line:    key.Line,
				Key:     key.Value,
				Message: fmt.Sprintf("is not a known setting (known: %s)", strings.Join(sortedKeys(known), ", ")),
			}
		}
	}
	return nil
}

// knownKeys returns the koanf keys of Configuration.
func knownKeys() map[string]struct{} {
	keys := make(map[string]struct{})
	t := reflect.TypeOf(Configuration{})
	for i := 0; i < t.NumField(); i++ {
		if name := koanfName(t.Field(i)); name != "" {
			keys[name] = struct{}{}
		}
	}
	return keys
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func koanfName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
	return name
}

var validate = newValidator()

// newValidator reports fields by their config key rather than the Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(koanfName)
	return v
}

// ValidateConfigValues checks the merged configuration against its validate
// tags and returns a ConfigError for the first bad setting.
func ValidateConfigValues(cfg *Configuration, source string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ConfigError{Source: source, Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ConfigError{
		Source:  source,
		Key:     fe.Field(),
		Message: settingMessage(fe.Field(), fe.Tag()),
	}
}

// settingMessage explains why a setting was rejected.
func settingMessage(key, tag string) string {
	switch key + "/" + tag {
	case "file/required":
		return "must name the changelog to update"
	case "output_suffix/required":
		return "must not be empty, or the changelog itself would be overwritten"
	case "output_suffix/excludes":
		return "must not contain '/': the output is written next to the changelog"
	default:
		return fmt.Sprintf("failed %q check", tag)
	}
}

// Marshal renders the configuration as YAML, as written in config files.
func (c *Configuration) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
