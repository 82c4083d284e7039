package notifying

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

type sendMailFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Notifier envia o resumo de um lote de jobs quando o drain sai dele
type Notifier struct {
	cfg      config.Notification
	jobRepo  repository.JobRepository
	sendMail sendMailFunc
}

func NewNotifier(cfg config.Notification, jobRepo repository.JobRepository) *Notifier {
	return &Notifier{
		cfg:      cfg,
		jobRepo:  jobRepo,
		sendMail: smtp.SendMail,
	}
}

// BatchCompleted dispara a notificação do lote. Sem SMTP configurado, apenas registra em log.
func (n *Notifier) BatchCompleted(ctx context.Context, batchID string) error {
	summary, err := n.jobRepo.SummarizeBatch(ctx, batchID)
	if err != nil {
		return fmt.Errorf("erro ao resumir lote %s: %w", batchID, err)
	}

	fields := logrus.Fields{
		"batch_id":  batchID,
		"completed": summary.Completed,
		"failed":    summary.Failed,
		"pending":   summary.Pending,
	}

	if !n.cfg.Enabled() {
		logrus.WithFields(fields).Info("Lote concluído (notificação por e-mail desabilitada)")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
	}

	if err := n.sendMail(addr, auth, n.cfg.From, n.cfg.Recipients, buildMessage(n.cfg.From, n.cfg.Recipients, summary)); err != nil {
		return fmt.Errorf("erro ao enviar e-mail do lote %s: %w", batchID, err)
	}

	logrus.WithFields(fields).Info("Notificação de lote concluído enviada")
	return nil
}

func buildMessage(from string, to []string, summary *domain.BatchSummary) []byte {
	subject := fmt.Sprintf("Lançamento %s concluído", summary.BatchID)
	if summary.Failed > 0 {
		subject = fmt.Sprintf("Lançamento %s concluído com %d falha(s)", summary.BatchID, summary.Failed)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	fmt.Fprintf(&b, "Lote: %s\r\n", summary.BatchID)
	fmt.Fprintf(&b, "Adsets criados: %d\r\n", summary.Completed)
	fmt.Fprintf(&b, "Adsets com falha: %d\r\n", summary.Failed)
	if summary.Pending > 0 {
		fmt.Fprintf(&b, "Ainda pendentes: %d\r\n", summary.Pending)
	}

	return []byte(b.String())
}
