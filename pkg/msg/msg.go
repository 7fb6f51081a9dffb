package msg

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"sync"

	"github.com/spf13/viper"
)

const (
	PathEnv     = "MESSAGES_FILE_PATH"
	DefaultPath = "configs/messages.yml"
)

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// Catalog holds flattened message templates keyed by their dotted YAML path.
type Catalog struct {
	messages map[string]string
}

var (
	mu       sync.RWMutex
	defaults = &Catalog{messages: map[string]string{}}
)

// Path returns the messages file location, honouring MESSAGES_FILE_PATH.
func Path() string {
	if value, ok := os.LookupEnv(PathEnv); ok && value != "" {
		return value
	}
	return DefaultPath
}

// Load reads a YAML message file into a new Catalog.
func Load(filepath string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fail to read messages %s: %w", filepath, err)
	}

	messages := make(map[string]string)
	for _, key := range v.AllKeys() {
		if value, ok := v.Get(key).(string); ok {
			messages[key] = value
		}
	}
	return &Catalog{messages: messages}, nil
}

// NewCatalog builds a Catalog from an in-memory map.
func NewCatalog(messages map[string]string) *Catalog {
	copied := make(map[string]string, len(messages))
	for k, v := range messages {
		copied[k] = v
	}
	return &Catalog{messages: copied}
}

// Init loads the package-level catalog used by GetMessage.
func Init(filepath string) error {
	catalog, err := Load(filepath)
	if err != nil {
		return err
	}
	mu.Lock()
	defaults = catalog
	mu.Unlock()
	return nil
}

// Default returns the package-level catalog.
func Default() *Catalog {
	mu.RLock()
	defer mu.RUnlock()
	return defaults
}

// GetMessage formats a message from the package-level catalog.
func GetMessage(key string, args ...interface{}) string {
	return Default().GetMessage(key, args...)
}

// Has reports whether the key exists.
func (c *Catalog) Has(key string) bool {
	_, ok := c.messages[key]
	return ok
}

// GetMessage returns the template for key with {n} replaced by the n-th argument.
// Substitution is a single pass, so argument text containing {n} is left as is.
func (c *Catalog) GetMessage(key string, args ...interface{}) string {
	template, exists := c.messages[key]
	if !exists {
		return fmt.Sprintf("Message not found: %s", key)
	}
	if len(args) == 0 {
		return template
	}

	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		index, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || index >= len(args) {
			return match
		}
		return argToString(args[index])
	})
}

func argToString(arg interface{}) string {
	if arg == nil {
		return ""
	}
	if err, ok := arg.(error); ok {
		return err.Error()
	}
	if stringer, ok := arg.(fmt.Stringer); ok {
		return stringer.String()
	}
	if isPrimitive(arg) {
		return primitiveToString(arg)
	}
	jsonBytes, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(jsonBytes)
}

// isPrimitive checks if the provided value is of a primitive type (bool, int, uint, float, or string).
func isPrimitive(value interface{}) bool {
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	default:
		return false
	}
}

func primitiveToString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
