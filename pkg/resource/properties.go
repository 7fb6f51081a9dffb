package resource

import (
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	PathEnv     = "PROPERTIES_FILE_PATH"
	DefaultPath = "configs/application.yml"
)

var (
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)

	mu    sync.RWMutex
	props = viper.New()
)

// Path returns the properties file location, honouring PROPERTIES_FILE_PATH.
func Path() string {
	if value, ok := os.LookupEnv(PathEnv); ok && value != "" {
		return value
	}
	return DefaultPath
}

// Init loads application properties from a YAML file and resolves ${ENV:default}
// placeholders in every string value. Calling Init again replaces the loaded set.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("fail to read properties %s: %w", filepath, err)
	}

	for _, key := range v.AllKeys() {
		if raw, ok := v.Get(key).(string); ok {
			v.Set(key, ResolveEnv(raw))
		}
	}

	mu.Lock()
	props = v
	mu.Unlock()
	return nil
}

// ResolveEnv replaces every ${NAME} or ${NAME:default} occurrence with the environment
// value, the default, or an empty string, in that order of preference.
func ResolveEnv(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if envValue, exists := os.LookupEnv(groups[1]); exists {
			return envValue
		}
		return groups[2]
	})
}

func current() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	return props
}

// IsSet reports whether the key carries a value.
func IsSet(key string) bool {
	return current().IsSet(key)
}

// UnmarshalKey decodes a nested section (lists, maps) into target.
func UnmarshalKey(key string, target any) error {
	return current().UnmarshalKey(key, target)
}

func GetString(key string) string {
	return current().GetString(key)
}

func GetBool(key string) bool {
	return current().GetBool(key)
}

func GetDuration(key string) time.Duration {
	return current().GetDuration(key)
}

func GetInt(key string) int {
	return current().GetInt(key)
}

func GetStringSlice(key string) []string {
	return current().GetStringSlice(key)
}
