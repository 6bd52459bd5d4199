package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/logosim/descriptor"
	"github.com/viant/logosim/metric"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterFunctions registers desc_l2 and desc_cosine with the driver so they
// are available on connections opened after the first call. Open calls it.
func RegisterFunctions() {
	registerOnce.Do(func() {
		_ = sqlite.RegisterDeterministicScalarFunction("desc_l2", 2, pairFunction("desc_l2", metric.L2))
		_ = sqlite.RegisterDeterministicScalarFunction("desc_cosine", 2, pairFunction("desc_cosine", metric.Cosine))
	})
}

// pairFunction adapts a vector pair function to SQL. NULL or empty BLOB
// arguments yield NULL.
func pairFunction(name string, fn func(a, b descriptor.Vector) (float64, error)) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, err := asVector(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := asVector(name, args[1])
		if err != nil {
			return nil, err
		}
		if a == nil || b == nil {
			return nil, nil
		}
		v, err := fn(a, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return v, nil
	}
}

func asVector(name string, arg driver.Value) (descriptor.Vector, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return descriptor.DecodeVector(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T for descriptor; want BLOB", name, arg)
	}
}
