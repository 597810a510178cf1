package patient

import (
	"context"
	"strings"
)

// Repository persists patient records. Update, Delete and GetByID return
// ErrNotFound when the id does not exist.
type Repository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Patient, error)
	Search(ctx context.Context, keyword string) ([]*Patient, error)
}

// likePattern turns a keyword into a LIKE pattern that matches it as a
// literal substring. Use with ESCAPE '\'.
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(keyword) + "%"
}
