// Package engines constructs narration engines by name and handles
// graceful degradation when the preferred engine cannot start.
package engines

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/storytime/playback"
	"github.com/dgnsrekt/storytime/playback/engines/mock"
	"github.com/dgnsrekt/storytime/playback/engines/noop"
	"github.com/dgnsrekt/storytime/playback/engines/piper"
)

// Engine names accepted by New.
const (
	NamePiper = "piper"
	NameMock  = "mock"
	NameNoop  = "noop"
)

// New builds the engine called name, delivering events to sink. An
// unknown name is an error; a known engine that fails to start degrades
// down the chain piper > mock > noop so playback always has an engine,
// even if a silent one.
func New(name string, cfg playback.Config, sink playback.EventSink) (playback.Engine, error) {
	switch name {
	case NamePiper:
		eng, err := piper.New(cfg.Piper, sink)
		if err == nil {
			return eng, nil
		}
		log.Warn("piper engine unavailable, falling back to mock", "err", err)
		return mock.New(cfg.Mock, sink), nil
	case NameMock:
		return mock.New(cfg.Mock, sink), nil
	case NameNoop:
		return noop.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", playback.ErrUnknownEngine, name)
	}
}

// Names lists the engine names New accepts, in preference order.
func Names() []string {
	return []string{NamePiper, NameMock, NameNoop}
}
