package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CryptoReportBot/internal/services/analysis"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReportEvent is the JSON value of every published message.
type ReportEvent struct {
	RunID       string           `json:"run_id"`
	Symbol      string           `json:"symbol"`
	GeneratedAt time.Time        `json:"generated_at"`
	Text        string           `json:"text"`
	Report      *analysis.Report `json:"report"`
}

// KafkaPublisher fans reports out to a Kafka topic keyed by symbol.
type KafkaPublisher struct {
	writer MessageWriter
	logger *zap.Logger
}

// NewKafkaWriter builds the writer the publisher is normally given.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Transport: &kafka.Transport{
			ClientID: "crypto-report-bot",
		},
	}
}

func NewKafkaPublisher(writer MessageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, runID string, r *analysis.Report, text string) error {
	value, err := json.Marshal(ReportEvent{
		RunID:       runID,
		Symbol:      r.Symbol,
		GeneratedAt: r.GeneratedAt,
		Text:        text,
		Report:      r,
	})
	if err != nil {
		return fmt.Errorf("encode report event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(r.Symbol),
		Value: value,
		Headers: []kafka.Header{
			{Key: "run-id", Value: []byte(runID)},
		},
		Time: r.GeneratedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish report",
			zap.String("symbol", r.Symbol),
			zap.String("runId", runID),
			zap.Error(err))
		return fmt.Errorf("publish report: %w", err)
	}

	p.logger.Info("Published report", zap.String("symbol", r.Symbol), zap.String("runId", runID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
