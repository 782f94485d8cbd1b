package mail

import (
	"context"
	"creatorlink/internal/observability"
	"fmt"

	"github.com/resendlabs/resend-go"
)

// ResendClient sends the workflow's transactional notifications to
// influencers. Subjects and bodies live here so every caller sends the
// same email for the same event.
type ResendClient struct {
	client    *resend.Client
	from      string
	webAppURI string
	logger    *observability.Logger
}

func NewResendClient(apiKey, from, webAppURI string, logger *observability.Logger) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendClient{
		client:    client,
		from:      from,
		webAppURI: webAppURI,
		logger:    logger,
	}, nil
}

// NotifyRequirementsShared tells the influencer the brand shared content
// requirements with them.
func (c *ResendClient) NotifyRequirementsShared(ctx context.Context, to, taskID, taskTitle string) error {
	subject, html := requirementsSharedEmail(c.webAppURI, taskID, taskTitle)
	return c.send(ctx, to, subject, html)
}

// NotifyContentApproved tells the influencer their submission was approved.
func (c *ResendClient) NotifyContentApproved(ctx context.Context, to, taskID, taskTitle string) error {
	subject, html := contentApprovedEmail(c.webAppURI, taskID, taskTitle)
	return c.send(ctx, to, subject, html)
}

// NotifyChangesRequested tells the influencer their submission was rejected
// and a revision is expected.
func (c *ResendClient) NotifyChangesRequested(ctx context.Context, to, taskID, taskTitle string) error {
	subject, html := changesRequestedEmail(c.webAppURI, taskID, taskTitle)
	return c.send(ctx, to, subject, html)
}

func (c *ResendClient) send(ctx context.Context, to, subject, htmlContent string) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: to},
		observability.Field{Key: "email_subject", Value: subject},
	)

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return nil
}

func requirementsSharedEmail(webAppURI, taskID, taskTitle string) (string, string) {
	subject := "Content requirements are ready"
	html := fmt.Sprintf(`<p>The content requirements for <strong>%s</strong> have been shared with you.</p>
<p><a href="%s/tasks/%s">Open the task</a> to review them and start creating.</p>`,
		taskTitle, webAppURI, taskID)
	return subject, html
}

func contentApprovedEmail(webAppURI, taskID, taskTitle string) (string, string) {
	subject := "Your content was approved"
	html := fmt.Sprintf(`<p>Your submission for <strong>%s</strong> was approved.</p>
<p><a href="%s/tasks/%s">Open the task</a> to publish and report analytics.</p>`,
		taskTitle, webAppURI, taskID)
	return subject, html
}

func changesRequestedEmail(webAppURI, taskID, taskTitle string) (string, string) {
	subject := "Changes requested on your content"
	html := fmt.Sprintf(`<p>Your submission for <strong>%s</strong> needs changes.</p>
<p><a href="%s/tasks/%s">Open the task</a> to read the feedback and upload a revision.</p>`,
		taskTitle, webAppURI, taskID)
	return subject, html
}
