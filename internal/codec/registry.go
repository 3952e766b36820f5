package codec

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/precreuse/internal/ir"
	"github.com/roach88/precreuse/internal/metadata"
)

// Task describes the verification task recorded in witness metadata.
// Proprietary codecs ignore it.
type Task struct {
	InputFile       string
	Property        string
	Architecture    string
	ProducerName    string
	ProducerVersion string
}

// Deps are the collaborators a codec may need.
type Deps struct {
	Logger   *slog.Logger
	Metadata metadata.Lookup
	Task     Task
}

// Constructor builds a codec from its dependencies.
type Constructor func(deps Deps) (Codec, error)

type registryKey struct {
	format Format
	kind   ir.Kind
}

var (
	registryMu sync.RWMutex
	registry   = make(map[registryKey]Constructor)
)

// Register makes a codec available to New. Codec packages call it from
// init; registering the same format and kind twice panics.
func Register(format Format, kind ir.Kind, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	key := registryKey{format, kind}
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("codec: Register called twice for %s/%s", format, kind))
	}
	registry[key] = ctor
}

// New selects the codec registered for format and kind.
func New(format Format, kind ir.Kind, deps Deps) (Codec, error) {
	registryMu.RLock()
	ctor, ok := registry[registryKey{format, kind}]
	registryMu.RUnlock()
	if !ok {
		return nil, &ConfigError{
			Code:    ErrCodeMisconfigured,
			Message: fmt.Sprintf("no codec registered for %s/%s", format, kind),
		}
	}
	return ctor(deps)
}

// Registered lists the registered format/kind pairs as "format/kind".
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, string(k.format)+"/"+string(k.kind))
	}
	sort.Strings(out)
	return out
}
