// Package journal persists executions for audit. It is not a delivery log:
// nothing is replayed from it, and losing rows never affects the bridge.
package journal

import (
	"context"
	"strconv"
	"sync"

	"github.com/yanun0323/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/host"
	"main/pkg/conn"
)

// ExecutionRow is one fill as stored.
type ExecutionRow struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	Handle     string          `gorm:"index;size:64"`
	Instrument string          `gorm:"index;size:32"`
	Side       string          `gorm:"size:8"`
	Quantity   int32
	Price      decimal.Decimal `gorm:"type:numeric"`
	TradedAt   int64           `gorm:"index"`
}

// TableName pins the table name.
func (ExecutionRow) TableName() string { return "executions" }

// Journal buffers executions and writes them from one background goroutine,
// so recording never blocks the host event consumer.
type Journal struct {
	client *conn.Client
	ch     chan ExecutionRow
	wg     sync.WaitGroup
	once   sync.Once
}

// Open connects, migrates, and starts the writer.
func Open(option conn.Option) (*Journal, error) {
	client, err := conn.New(option)
	if err != nil {
		return nil, errors.Wrap(err, "connect journal db")
	}
	if err := client.DB().AutoMigrate(&ExecutionRow{}); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "migrate journal db")
	}

	j := &Journal{
		client: client,
		ch:     make(chan ExecutionRow, 1024),
	}
	j.wg.Add(1)
	go j.writeLoop()
	return j, nil
}

func rowFromExecution(exec host.Execution) ExecutionRow {
	return ExecutionRow{
		Handle:     string(exec.Handle),
		Instrument: exec.Instrument,
		Side:       exec.Action.String(),
		Quantity:   exec.Quantity,
		Price:      decimal.Decimal(strconv.FormatFloat(exec.Price, 'f', -1, 64)),
		TradedAt:   exec.Time.UnixNano(),
	}
}

// RecordExecution queues one fill for persistence. Drops when the buffer is
// full rather than blocking the caller.
func (j *Journal) RecordExecution(exec host.Execution) {
	row := rowFromExecution(exec)
	select {
	case j.ch <- row:
	default:
		logs.Errorf("journal buffer full, dropping execution for %s", exec.Instrument)
	}
}

// Executions returns stored rows for an instrument, newest first.
func (j *Journal) Executions(ctx context.Context, instrument string, limit int) ([]ExecutionRow, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []ExecutionRow
	err := j.client.DB().WithContext(ctx).
		Where("instrument = ?", instrument).
		Order("traded_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query executions")
	}
	return rows, nil
}

// Close drains pending rows and closes the database.
func (j *Journal) Close() error {
	j.once.Do(func() {
		close(j.ch)
	})
	j.wg.Wait()
	return j.client.Close()
}

func (j *Journal) writeLoop() {
	defer j.wg.Done()
	for row := range j.ch {
		if err := j.client.DB().Create(&row).Error; err != nil {
			logs.Errorf("journal insert, err: %+v", err)
		}
	}
}
