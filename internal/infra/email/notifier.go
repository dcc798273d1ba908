package email

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// SMTPNotifier alerts the operator when a segment upload fails. The pipeline
// has no retry, so the email is the only delivery-failure signal.
type SMTPNotifier struct {
	host   string
	port   int
	from   string
	to     string
	logger *zap.Logger
}

func NewSMTPNotifier(host string, port int, from, to string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, from: from, to: to, logger: logger}
}

func (n *SMTPNotifier) NotifyUploadFailure(_ context.Context, segmentName, path, errorMsg string) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	subject := fmt.Sprintf("camrec - segment upload failed [%s]", segmentName)
	body := fmt.Sprintf(
		"A recorded segment could not be uploaded and remains on local disk.\r\n\r\n"+
			"Segment: %s\r\n"+
			"Local file: %s\r\n"+
			"Error: %s\r\n\r\n"+
			"The agent does not retry uploads; recover the file manually if needed.\r\n\r\n"+
			"-- camrec capture agent",
		segmentName, path, errorMsg,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, n.to, subject, body,
	)

	if err := smtp.SendMail(addr, nil, n.from, []string{n.to}, []byte(msg)); err != nil {
		n.logger.Error("upload failure email not sent",
			zap.String("to", n.to),
			zap.String("segment", segmentName),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("upload failure email sent",
		zap.String("to", n.to),
		zap.String("segment", segmentName),
	)
	return nil
}
