package amqp

import (
	"encoding/json"
	"time"
)

// ReportGeneratedMessage announces one generated report. It carries the
// history ID plus enough aggregate data for downstream consumers that
// have no database access.
type ReportGeneratedMessage struct {
	ID           int64     `json:"id"`
	Variant      string    `json:"variant"`
	Source       string    `json:"source"`
	RowCount     int       `json:"row_count"`
	SummaryCount int       `json:"summary_count"`
	PaymentTotal float64   `json:"payment_total"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewReportGeneratedMessage(id int64, variant, source string, rowCount, summaryCount int, paymentTotal float64) *ReportGeneratedMessage {
	return &ReportGeneratedMessage{
		ID:           id,
		Variant:      variant,
		Source:       source,
		RowCount:     rowCount,
		SummaryCount: summaryCount,
		PaymentTotal: paymentTotal,
		Timestamp:    time.Now(),
	}
}

func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
