package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

// File is a parsed subscription file.
type File struct {
	// Realm overrides the engine realm when set.
	Realm string

	// Defaults requests the engine's default subscriptions at startup.
	Defaults bool

	// StateDir enables session handoff; the session state is kept there.
	StateDir string

	// ProtocolLog is the path of the CBOR protocol log, if any.
	ProtocolLog string

	// Subscriptions lists the entries in file order.
	Subscriptions []Entry
}

// Entry is one validated subscription entry.
type Entry struct {
	Key  subscription.Key
	Line int
}

// Keys returns the subscription keys in file order.
func (f *File) Keys() []subscription.Key {
	keys := make([]subscription.Key, len(f.Subscriptions))
	for i, e := range f.Subscriptions {
		keys[i] = e.Key
	}
	return keys
}

// LoadError provides details about a subscription file error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	file := e.File
	if file == "" {
		file = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", file, e.Line, msg)
	}
	return file + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

type rawFile struct {
	Realm         string      `yaml:"realm"`
	Defaults      bool        `yaml:"defaults"`
	StateDir      string      `yaml:"state_dir"`
	ProtocolLog   string      `yaml:"protocol_log"`
	Subscriptions []yaml.Node `yaml:"subscriptions"`
}

type rawEntry struct {
	Class     *string `yaml:"class"`
	Instance  *string `yaml:"instance"`
	Recipient *string `yaml:"recipient"`
}

// Parse parses a subscription file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	f := &File{
		Realm:       raw.Realm,
		Defaults:    raw.Defaults,
		StateDir:    raw.StateDir,
		ProtocolLog: raw.ProtocolLog,
	}
	for i := range raw.Subscriptions {
		node := &raw.Subscriptions[i]
		key, err := parseEntry(node)
		if err != nil {
			return nil, &LoadError{
				Line:    node.Line,
				Message: fmt.Sprintf("subscription %d", i+1),
				Cause:   err,
			}
		}
		f.Subscriptions = append(f.Subscriptions, Entry{Key: key, Line: node.Line})
	}

	return f, nil
}

// Load reads and parses the subscription file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	f, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, err
	}
	return f, nil
}

func parseEntry(node *yaml.Node) (subscription.Key, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return subscription.ParseKey(node.Value)

	case yaml.MappingNode:
		var e rawEntry
		if err := node.Decode(&e); err != nil {
			return subscription.Key{}, fmt.Errorf("%w: %v", subscription.ErrInvalidKey, err)
		}
		if e.Class == nil || e.Instance == nil || e.Recipient == nil {
			return subscription.Key{}, fmt.Errorf("%w: class, instance and recipient are required", subscription.ErrInvalidKey)
		}
		return subscription.KeyOf(*e.Class, *e.Instance, *e.Recipient), nil

	default:
		return subscription.Key{}, fmt.Errorf("%w: unexpected %s", subscription.ErrInvalidKey, kindName(node.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "node"
	}
}
