package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shady333/gettingHWaccess/pkg/logger"
	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

func TestNoOpNotifier(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(logger.Discard())
	require.NoError(t, n.NotifyObservation(context.Background(), testObservation(intp(1))))
	require.NoError(t, n.NotifyStatus(context.Background(), domain.StatusEvent{Message: "x"}))
}

// compile-time interface checks.
var (
	_ Notifier = (*NoOpNotifier)(nil)
	_ Notifier = (*DiscordNotifier)(nil)
	_ Notifier = (*ConsoleNotifier)(nil)
)
