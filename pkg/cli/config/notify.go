package config

import (
	"github.com/litigio/tramita/pkg/service/notify"
	"github.com/litigio/tramita/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Notify holds CLI flags for review notifications
type Notify struct {
	slackBotToken string
	slackChannel  string
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot token for review notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("TRAMITA_SLACK_BOT_TOKEN"),
			Destination: &n.slackBotToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for review notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("TRAMITA_SLACK_CHANNEL"),
			Destination: &n.slackChannel,
		},
	}
}

// Configure builds the notification service, or returns nil when not
// configured.
func (n *Notify) Configure() (notify.Service, error) {
	if n.slackBotToken == "" {
		logging.Default().Info("Slack notifications not configured")
		return nil, nil
	}
	if n.slackChannel == "" {
		return nil, goerr.New("slack-channel is required when slack-bot-token is set")
	}

	svc, err := notify.NewSlack(n.slackBotToken, n.slackChannel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	logging.Default().Info("Slack notifications enabled", "channel", n.slackChannel)
	return svc, nil
}
