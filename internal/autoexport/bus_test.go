package autoexport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/autoexport"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet"
)

func TestBus(t *testing.T) {
	t.Parallel()

	t.Run("dispatches events in registration order", func(t *testing.T) {
		t.Parallel()

		bus := autoexport.NewBus()

		var order []string
		bus.OnWalletLoaded(func(context.Context, wallet.Reader) {
			order = append(order, "first")
		})
		bus.OnWalletLoaded(func(context.Context, wallet.Reader) {
			order = append(order, "second")
		})
		bus.OnWalletClosed(func(context.Context) {
			order = append(order, "closed")
		})
		bus.OnSettingsChanged(func(context.Context) {
			order = append(order, "settings")
		})

		bus.PublishWalletLoaded(t.Context(), nil)
		bus.PublishSettingsChanged(t.Context())
		bus.PublishWalletClosed(t.Context())

		require.Equal(t, []string{"first", "second", "settings", "closed"}, order)
	})

	t.Run("publish with no subscribers is a no-op", func(t *testing.T) {
		t.Parallel()

		bus := autoexport.NewBus()
		bus.PublishWalletLoaded(t.Context(), nil)
		bus.PublishWalletClosed(t.Context())
		bus.PublishSettingsChanged(t.Context())
	})

	t.Run("session bound to bus follows wallet lifecycle", func(t *testing.T) {
		t.Parallel()

		bus := autoexport.NewBus()
		session := autoexport.NewSession(mapStore{})
		session.Bind(bus)

		bus.PublishWalletLoaded(t.Context(), demoWallet())
		require.NoError(t, session.ExportOnce(t.Context()))

		bus.PublishWalletClosed(t.Context())
		require.ErrorIs(t, session.ExportOnce(t.Context()), autoexport.ErrNoWallet)
	})
}
