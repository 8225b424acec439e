package notify

import (
	"context"
	"fmt"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Service posts review events to the staff channel. All calls are
// best-effort from the caller's point of view: a notification failure
// never fails the underlying transition.
type Service interface {
	ActionApproved(ctx context.Context, tenantName, clientName string, action *model.Action) error
	ActionReturned(ctx context.Context, tenantName, clientName string, action *model.Action, comment string) error
}

type slackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlack creates a notifier posting to a fixed Slack channel
func NewSlack(botToken, channel string) (Service, error) {
	if botToken == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &slackNotifier{
		api:     slack.New(botToken),
		channel: channel,
	}, nil
}

func (n *slackNotifier) ActionApproved(ctx context.Context, tenantName, clientName string, action *model.Action) error {
	header := fmt.Sprintf(":white_check_mark: Ação aprovada: %s", action.Title)
	contextLine := fmt.Sprintf("%s  |  Cliente: %s  |  Ação #%d", tenantName, clientName, action.ID)

	return n.post(ctx, header, contextLine, "")
}

func (n *slackNotifier) ActionReturned(ctx context.Context, tenantName, clientName string, action *model.Action, comment string) error {
	header := fmt.Sprintf(":leftwards_arrow_with_hook: Ação devolvida: %s", action.Title)
	contextLine := fmt.Sprintf("%s  |  Cliente: %s  |  Ação #%d", tenantName, clientName, action.ID)

	return n.post(ctx, header, contextLine, comment)
}

func (n *slackNotifier) post(ctx context.Context, header, contextLine, comment string) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, header, true, false),
		),
	}

	if comment != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "> "+comment, false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, contextLine, false, false),
	))

	_, _, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(header, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack notification")
	}

	return nil
}
