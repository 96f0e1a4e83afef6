package reply

import (
	"context"

	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
)

// Kind tells the generator which user action it is answering.
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindBarcode Kind = "barcode"
)

// Request carries everything a generator may use to answer.
type Request struct {
	Kind    Kind
	Text    string
	Mode    chat.Mode
	Image   string
	History []chat.Message
}

// Reply is the assistant payload appended to a thread.
type Reply struct {
	Content  string
	Products []catalog.Product
	Chips    []string
}

// Generator produces assistant replies. The session manager only depends on
// this interface, so a model-backed implementation can replace the mock.
type Generator interface {
	Generate(ctx context.Context, req Request) (Reply, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Reply, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Reply, error) {
	return f(ctx, req)
}
