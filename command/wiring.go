package command

import (
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-qrexport/qrcode"
	"github.com/goliatone/go-qrexport/query"
)

// Service is what the command and query handlers need from qrcode.Service.
type Service interface {
	Exporter
	query.Previewer
	query.OptionsProvider
}

// RegisterHandlers subscribes the QR code commands and queries with the
// dispatcher and, when reg is set, the registry. Callers unsubscribe the
// returned subscriptions on shutdown.
func RegisterHandlers(reg *gcmd.Registry, svc Service, store ArtifactStore) ([]dispatcher.Subscription, error) {
	if svc == nil {
		return nil, errors.New("qrcode service is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}

	export := NewExportQRCodeHandler(svc)
	preview := query.NewGeneratePreviewHandler(svc)
	options := query.NewListOptionsHandler(svc)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(export),
		dispatcher.SubscribeQuery(preview),
		dispatcher.SubscribeQuery(options),
	}
	handlers := []any{export, preview, options}

	if store != nil {
		save := &SaveQRCodeHandler{Exports: export, Store: store}
		subscriptions = append(subscriptions, dispatcher.SubscribeCommand(save))
		handlers = append(handlers, save)
	}

	if reg != nil {
		for _, handler := range handlers {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}
	return subscriptions, nil
}

// Unsubscribe releases dispatcher subscriptions.
func Unsubscribe(subs []dispatcher.Subscription) {
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

var _ Service = (*qrcode.Service)(nil)
