package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/singnet/walletkit-go/pkg/model"
	"go.uber.org/zap"
)

// handleRawEvent translates a connector event into at most one canonical
// event. The current network id changes only here.
func (s *Service) handleRawEvent(raw model.RawEvent) {
	s.metrics.RawEvent(string(raw.Type))

	switch raw.Type {
	case model.RawConnectSuccess, model.RawSelectWallet:
		addr, err := s.connectedAddress()
		if err != nil {
			zap.L().Warn("connected wallet has no usable signer",
				zap.String("event", string(raw.Type)), zap.Error(err))
			return
		}
		s.mu.Lock()
		s.account, s.hasAccount = addr, true
		s.mu.Unlock()
		s.dispatch(model.Connected(addr.Hex()))

	case model.RawDisconnectSuccess:
		s.mu.Lock()
		s.account, s.hasAccount = common.Address{}, false
		s.mu.Unlock()
		s.dispatch(model.Disconnected(model.DisconnectReason))

	case model.RawSwitchNetwork:
		id, err := ParseNetworkID(raw.Network)
		if err != nil {
			zap.L().Warn("ignoring network switch", zap.String("network", raw.Network), zap.Error(err))
			return
		}
		s.mu.Lock()
		s.networkID, s.hasNetwork = id, true
		s.mu.Unlock()
		zap.L().Info("active network changed", zap.Int64("chainId", id))
		s.dispatch(model.NetworkChanged(id, s.cfg.APIURLs[id]))

	default:
		zap.L().Debug("ignoring wallet event", zap.String("event", string(raw.Type)))
	}
}

// connectedAddress re-derives the account from the signer so a reconnect with
// another account is reflected.
func (s *Service) connectedAddress() (common.Address, error) {
	p := s.Provider()
	if p == nil {
		return common.Address{}, model.ErrNoProvider
	}
	ctx, cancel := s.walletContext()
	defer cancel()
	signer, err := p.Signer(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return signer.Address, nil
}

func (s *Service) dispatch(ev model.Event) {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subs {
		if err := deliver(sub, ev); err != nil {
			s.metrics.SubscriberFailure(string(ev.Type))
			zap.L().Error("subscriber failed",
				zap.String("subscription", sub.id.String()),
				zap.String("event", string(ev.Type)),
				zap.Error(err))
			continue
		}
		s.metrics.EventDelivered(string(ev.Type))
	}
}

func deliver(sub subscriber, ev model.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sub.handler(ev)
}
