package template

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/scaff/pkg/errors"
)

// Generator produces values for generator-backed bindings
type Generator interface {
	Generate(tag string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(tag string) (string, error)

// Generate calls f(tag)
func (f GeneratorFunc) Generate(tag string) (string, error) {
	return f(tag)
}

// Generator tags understood by StandardGenerator
const (
	GenUUID      = "uuid"
	GenUUIDLower = "uuid-lower"
	GenDate      = "date"
	GenYear      = "year"
	GenTime      = "time"
)

// GeneratorTags lists the tags StandardGenerator accepts
var GeneratorTags = []string{GenUUID, GenUUIDLower, GenDate, GenYear, GenTime}

// StandardGenerator mints unique identifiers and timestamps.
// It is safe for concurrent use as long as Now and NewUUID are.
type StandardGenerator struct {
	// Now returns the current time; defaults to time.Now
	Now func() time.Time
	// NewUUID returns a fresh UUID; defaults to uuid.NewRandom
	NewUUID func() (uuid.UUID, error)
	// LowercaseUUID makes the "uuid" tag emit lowercase hex
	LowercaseUUID bool
}

// NewStandardGenerator returns a generator backed by the system clock and
// random v4 UUIDs
func NewStandardGenerator() *StandardGenerator {
	return &StandardGenerator{
		Now:     time.Now,
		NewUUID: uuid.NewRandom,
	}
}

// Generate implements Generator
func (g *StandardGenerator) Generate(tag string) (string, error) {
	switch tag {
	case GenUUID, GenUUIDLower:
		id, err := g.uuid()
		if err != nil {
			return "", err
		}
		if tag == GenUUIDLower || g.LowercaseUUID {
			return id, nil
		}
		return strings.ToUpper(id), nil
	case GenDate:
		return g.now().Format("2006-01-02"), nil
	case GenYear:
		return g.now().Format("2006"), nil
	case GenTime:
		return g.now().Format("15:04"), nil
	default:
		return "", errors.Newf(errors.ErrUnknownGenerator, "unknown generator %q", tag).
			WithDetail("tag", tag)
	}
}

func (g *StandardGenerator) uuid() (string, error) {
	newUUID := g.NewUUID
	if newUUID == nil {
		newUUID = uuid.NewRandom
	}
	id, err := newUUID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (g *StandardGenerator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}
