package projections

import (
	"context"

	auditStore "growfitness/internal/adapters/storage/audit"
	invoiceStore "growfitness/internal/adapters/storage/invoice"
	kidStore "growfitness/internal/adapters/storage/kid"
	requestStore "growfitness/internal/adapters/storage/request"
	sessionStore "growfitness/internal/adapters/storage/session"
	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

// UserReader interface for user queries.
type UserReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]user.User, error)
	List(ctx context.Context, filter userStore.ListFilter) ([]user.User, int, error)
	Count(ctx context.Context, filter userStore.ListFilter) (int, error)
}

// KidReader interface for kid queries.
type KidReader interface {
	GetByID(ctx context.Context, id string) (kid.Kid, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]kid.Kid, error)
	List(ctx context.Context, filter kidStore.ListFilter) ([]kid.Kid, int, error)
	Count(ctx context.Context) (int, error)
}

// LocationReader interface for location lookups.
type LocationReader interface {
	GetByID(ctx context.Context, id string) (location.Location, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]location.Location, error)
}

// SessionReader interface for session queries.
type SessionReader interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	List(ctx context.Context, filter sessionStore.ListFilter) ([]session.Session, int, error)
}

// InvoiceReader interface for invoice queries.
type InvoiceReader interface {
	GetByID(ctx context.Context, id string) (invoice.Invoice, error)
	List(ctx context.Context, filter invoiceStore.ListFilter) ([]invoice.Invoice, int, error)
}

// RequestReader interface for request queries.
type RequestReader interface {
	ListFreeSessions(ctx context.Context, filter requestStore.ListFilter) ([]request.FreeSessionRequest, int, error)
	ListReschedules(ctx context.Context, filter requestStore.ListFilter) ([]request.RescheduleRequest, int, error)
	ListExtraSessions(ctx context.Context, filter requestStore.ListFilter) ([]request.ExtraSessionRequest, int, error)
}

// AuditReader interface for audit log queries.
type AuditReader interface {
	List(ctx context.Context, filter auditStore.Filter) ([]audit.Entry, int, error)
}
