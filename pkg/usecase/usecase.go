package usecase

import (
	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/service/archive"
	"github.com/litigio/tramita/pkg/service/notify"
)

// UseCases bundles the application's use case objects
type UseCases struct {
	Action *ActionUseCase
	File   *FileUseCase
	Auth   *AuthUseCase
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithArchive wires the file archive service
func WithArchive(svc *archive.Service) Option {
	return func(uc *UseCases) {
		uc.File.archive = svc
	}
}

// WithNotifier wires the review event notifier
func WithNotifier(n notify.Service) Option {
	return func(uc *UseCases) {
		uc.Action.notifier = n
	}
}

func New(repo interfaces.Repository, registry *model.TenantRegistry, opts ...Option) *UseCases {
	uc := &UseCases{
		Action: NewActionUseCase(repo, registry),
		File:   NewFileUseCase(repo, registry, nil),
		Auth:   NewAuthUseCase(repo),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
