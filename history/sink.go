package history

import (
	"github.com/subgate-cli/subgate/event"
	"github.com/subgate-cli/subgate/log"
)

// Sink journals every settled submission and relay it sees.
var Sink event.Sink = event.SinkFunc(func(e event.Event) {
	entry, ok := FromEvent(e)
	if !ok {
		return
	}
	if err := Save(entry); err != nil {
		log.For("history").WithError(err).Warn("journal not updated")
	}
})
