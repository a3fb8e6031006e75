package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/ecodott-storefront/pkg/errors"
	"github.com/angelmondragon/ecodott-storefront/pkg/logger"
)

const EnvelopeVersion = 1

var (
	ErrCorrupt        = errors.New("stored value is not a valid envelope")
	ErrUnknownVersion = errors.New("stored envelope version is not supported")
)

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Encode wraps value in the current envelope version.
func Encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope data: %w", err)
	}
	return json.Marshal(envelope{Version: EnvelopeVersion, Data: data})
}

// Decode unwraps raw into out.
func Decode(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != EnvelopeVersion {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, env.Version)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%w: missing data", ErrCorrupt)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

// Load reads key into a T. A missing key, an undecodable value, or a value rejected
// by validate yields the zero T and a warning log; only backend failures are
// returned as errors.
func Load[T any](ctx context.Context, store Store, logg *logger.Logger, key string, validate func(T) error) (T, error) {
	var zero T
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+key)
	}
	if !ok {
		return zero, nil
	}

	var value T
	if err := Decode(raw, &value); err != nil {
		warnDiscarded(ctx, logg, key, err)
		return zero, nil
	}
	if validate != nil {
		if err := validate(value); err != nil {
			warnDiscarded(ctx, logg, key, err)
			return zero, nil
		}
	}
	return value, nil
}

// Save encodes value and replaces key.
func Save(ctx context.Context, store Store, key string, value any) error {
	raw, err := Encode(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+key)
	}
	if err := store.Put(ctx, key, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write "+key)
	}
	return nil
}

func warnDiscarded(ctx context.Context, logg *logger.Logger, key string, err error) {
	if logg == nil {
		return
	}
	ctx = logg.WithFields(ctx, map[string]any{"key": key, "reason": err.Error()})
	logg.Warn(ctx, "discarding unreadable stored value")
}
