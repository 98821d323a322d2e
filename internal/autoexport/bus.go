package autoexport

import (
	"context"
	"sync"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet"
)

// Bus is a minimal event bus for wallet lifecycle events. Hosts publish
// events; subscribers (typically a Session) react to them. Handlers run
// synchronously in registration order on the publisher's goroutine.
type Bus struct {
	mu              sync.RWMutex
	walletLoaded    []func(context.Context, wallet.Reader)
	walletClosed    []func(context.Context)
	settingsChanged []func(context.Context)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) OnWalletLoaded(fn func(context.Context, wallet.Reader)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.walletLoaded = append(b.walletLoaded, fn)
}

func (b *Bus) OnWalletClosed(fn func(context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.walletClosed = append(b.walletClosed, fn)
}

func (b *Bus) OnSettingsChanged(fn func(context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.settingsChanged = append(b.settingsChanged, fn)
}

func (b *Bus) PublishWalletLoaded(ctx context.Context, w wallet.Reader) {
	b.mu.RLock()
	handlers := b.walletLoaded
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, w)
	}
}

func (b *Bus) PublishWalletClosed(ctx context.Context) {
	b.mu.RLock()
	handlers := b.walletClosed
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx)
	}
}

func (b *Bus) PublishSettingsChanged(ctx context.Context) {
	b.mu.RLock()
	handlers := b.settingsChanged
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx)
	}
}
