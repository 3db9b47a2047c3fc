package consumer

import (
	"encoding/json"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockEventConsumer keeps the local blocked-time overlay in sync with the
// external event system. The overlay is read-only for the rest of the
// service; only this consumer writes it.
type BlockEventConsumer struct {
	db *gorm.DB
}

func NewBlockEventConsumer(db *gorm.DB) *BlockEventConsumer {
	return &BlockEventConsumer{db: db}
}

// Start listens for court.block.* messages and mirrors them locally.
func (bc *BlockEventConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			bc.handleMessage(msg)
		}
		log.Println("[BlockEventConsumer] channel closed, stopping consumer")
	}()
}

func (bc *BlockEventConsumer) handleMessage(msg amqp.Delivery) {
	var event models.BlockedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[BlockEventConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if strings.HasSuffix(msg.RoutingKey, ".removed") {
		if err := bc.db.Where("external_id = ?", event.ExternalID).
			Delete(&models.BlockedEvent{}).Error; err != nil {
			log.Printf("[BlockEventConsumer] failed to remove block %d: %v", event.ExternalID, err)
			msg.Nack(false, true) // requeue
			return
		}
		log.Printf("[BlockEventConsumer] removed block %d: %s", event.ExternalID, event.Name)
		msg.Ack(false)
		return
	}

	// Upsert: insert or update on conflict (same external ID from the event
	// system)
	result := bc.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "date", "start_hour", "end_hour", "updated_at"}),
	}).Create(&event)

	if result.Error != nil {
		log.Printf("[BlockEventConsumer] failed to upsert block %d: %v", event.ExternalID, result.Error)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[BlockEventConsumer] synced block %d: %s", event.ExternalID, event.Name)
	msg.Ack(false)
}
