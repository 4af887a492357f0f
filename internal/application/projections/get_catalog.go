package projections

import (
	"context"
	"fmt"

	codeStore "growfitness/internal/adapters/storage/code"
	crmStore "growfitness/internal/adapters/storage/crm"
	quizStore "growfitness/internal/adapters/storage/quiz"
	reportStore "growfitness/internal/adapters/storage/report"
	resourceStore "growfitness/internal/adapters/storage/resource"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/banner"
	"growfitness/internal/domain/code"
	"growfitness/internal/domain/crm"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/quiz"
	"growfitness/internal/domain/report"
	"growfitness/internal/domain/resource"
)

// Reader is a store that can fetch one T by id.
type Reader[T any] interface {
	GetByID(ctx context.Context, id string) (T, error)
}

// QueryGet fetches one entity, mapping a missing row to sentinel.
func QueryGet[T any](ctx context.Context, id string, store Reader[T], sentinel error, what string) (T, error) {
	v, err := store.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, notFound(err, sentinel, what)
	}
	return v, nil
}

// LocationLister lists every location.
type LocationLister interface {
	List(ctx context.Context) ([]location.Location, error)
}

// QueryListLocations returns all locations sorted by name.
func QueryListLocations(ctx context.Context, store LocationLister) ([]location.Location, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return list, nil
}

// BannerLister lists every banner.
type BannerLister interface {
	List(ctx context.Context) ([]banner.Banner, error)
}

// QueryListBanners returns all banners by display order.
func QueryListBanners(ctx context.Context, store BannerLister) ([]banner.Banner, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return list, nil
}

// QuizLister pages quizzes.
type QuizLister interface {
	List(ctx context.Context, filter quizStore.ListFilter) ([]quiz.Quiz, int, error)
}

// QueryListQuizzes pages quizzes, optionally by targetAudience.
func QueryListQuizzes(ctx context.Context, p listutil.PageParams, audience string, store QuizLister) (listutil.Page[quiz.Quiz], error) {
	list, total, err := store.List(ctx, quizStore.ListFilter{Limit: p.Limit, Offset: p.Offset(), TargetAudience: audience})
	if err != nil {
		return listutil.Page[quiz.Quiz]{}, fmt.Errorf("list quizzes: %w", err)
	}
	return listutil.NewPage(list, total, p), nil
}

// ReportLister pages reports.
type ReportLister interface {
	List(ctx context.Context, filter reportStore.ListFilter) ([]report.Report, int, error)
}

// QueryListReports pages reports by type and status.
func QueryListReports(ctx context.Context, p listutil.PageParams, reportType, status string, store ReportLister) (listutil.Page[report.Report], error) {
	list, total, err := store.List(ctx, reportStore.ListFilter{Limit: p.Limit, Offset: p.Offset(), Type: reportType, Status: status})
	if err != nil {
		return listutil.Page[report.Report]{}, fmt.Errorf("list reports: %w", err)
	}
	return listutil.NewPage(list, total, p), nil
}

// CodeLister pages codes.
type CodeLister interface {
	List(ctx context.Context, filter codeStore.ListFilter) ([]code.Code, int, error)
}

// QueryListCodes pages codes, optionally by status.
func QueryListCodes(ctx context.Context, p listutil.PageParams, status string, store CodeLister) (listutil.Page[code.Code], error) {
	list, total, err := store.List(ctx, codeStore.ListFilter{Limit: p.Limit, Offset: p.Offset(), Status: status})
	if err != nil {
		return listutil.Page[code.Code]{}, fmt.Errorf("list codes: %w", err)
	}
	return listutil.NewPage(list, total, p), nil
}

// CrmLister pages CRM contacts.
type CrmLister interface {
	List(ctx context.Context, filter crmStore.ListFilter) ([]crm.Contact, int, error)
}

// QueryListCrmContacts pages contacts by status and parentId.
func QueryListCrmContacts(ctx context.Context, p listutil.PageParams, status, parentID string, store CrmLister) (listutil.Page[crm.Contact], error) {
	list, total, err := store.List(ctx, crmStore.ListFilter{Limit: p.Limit, Offset: p.Offset(), Status: status, ParentID: parentID})
	if err != nil {
		return listutil.Page[crm.Contact]{}, fmt.Errorf("list crm contacts: %w", err)
	}
	return listutil.NewPage(list, total, p), nil
}

// ResourceLister pages resources.
type ResourceLister interface {
	List(ctx context.Context, filter resourceStore.ListFilter) ([]resource.Resource, int, error)
}

// QueryListResources pages resources by targetAudience and type.
func QueryListResources(ctx context.Context, p listutil.PageParams, audience, resourceType string, store ResourceLister) (listutil.Page[resource.Resource], error) {
	list, total, err := store.List(ctx, resourceStore.ListFilter{Limit: p.Limit, Offset: p.Offset(), TargetAudience: audience, Type: resourceType})
	if err != nil {
		return listutil.Page[resource.Resource]{}, fmt.Errorf("list resources: %w", err)
	}
	return listutil.NewPage(list, total, p), nil
}
