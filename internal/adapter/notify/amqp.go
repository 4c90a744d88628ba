// Package notify publishes domain events to RabbitMQ for the notification
// and transaction-materialization consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/odimsom/managemymoney-backend/internal/domain"
)

// Routing keys, one queue per event stream.
const (
	RoutingKeyBudgetAlert   = "budget.alert"
	RoutingKeyGoalCompleted = "goal.completed"
	RoutingKeyRecurringDue  = "recurring.due"
)

const publishTimeout = 5 * time.Second

// Publisher delivers persistent JSON messages through a direct exchange.
// It satisfies the publisher interfaces of the budget, goal and recurring
// services.
type Publisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewPublisher dials the broker and declares the exchange plus one bound
// queue per routing key.
func NewPublisher(url, exchangeName string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	routingKeys := []string{RoutingKeyBudgetAlert, RoutingKeyGoalCompleted, RoutingKeyRecurringDue}
	for _, key := range routingKeys {
		_, err = p.channel.QueueDeclare(
			key,   // name (same as routing key for direct exchange)
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", key, err)
		}

		if err := p.channel.QueueBind(key, key, p.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", key, err)
		}
	}
	return nil
}

// BudgetNearLimit publishes a near-limit alert for the budget.
func (p *Publisher) BudgetNearLimit(ctx context.Context, b *domain.Budget) error {
	return p.publishBudgetAlert(ctx, b, AlertLevelNearLimit)
}

// BudgetExceeded publishes an over-limit alert for the budget.
func (p *Publisher) BudgetExceeded(ctx context.Context, b *domain.Budget) error {
	return p.publishBudgetAlert(ctx, b, AlertLevelExceeded)
}

func (p *Publisher) publishBudgetAlert(ctx context.Context, b *domain.Budget, level string) error {
	msg := BudgetAlertMessage{
		BudgetID:       b.ID,
		UserID:         b.UserID,
		Name:           b.Name,
		Level:          level,
		Limit:          b.Limit.Amount.String(),
		Spent:          b.Spent.Amount.String(),
		PercentageUsed: b.PercentageUsed().String(),
		Currency:       b.Limit.Currency,
		Timestamp:      time.Now().UTC(),
	}
	return p.publish(ctx, RoutingKeyBudgetAlert, msg)
}

// GoalCompleted publishes a completion event for the goal.
func (p *Publisher) GoalCompleted(ctx context.Context, g *domain.SavingsGoal) error {
	msg := GoalCompletedMessage{
		GoalID:    g.ID,
		UserID:    g.UserID,
		Name:      g.Name,
		Target:    g.Target.Amount.String(),
		Current:   g.Current.Amount.String(),
		Currency:  g.Target.Currency,
		Timestamp: time.Now().UTC(),
	}
	if g.CompletedAt != nil {
		msg.CompletedAt = *g.CompletedAt
	}
	return p.publish(ctx, RoutingKeyGoalCompleted, msg)
}

// RecurringExpenseDue publishes a due occurrence for a recurring expense.
func (p *Publisher) RecurringExpenseDue(ctx context.Context, e *domain.RecurringExpense, occurredOn time.Time) error {
	msg := RecurrenceDueMessage{
		RecurrenceID: e.ID,
		UserID:       e.UserID,
		AccountID:    e.AccountID,
		Kind:         RecurrenceKindExpense,
		Name:         e.Name,
		Amount:       e.Amount.Amount.String(),
		Currency:     e.Amount.Currency,
		OccurredOn:   occurredOn,
		Timestamp:    time.Now().UTC(),
	}
	return p.publish(ctx, RoutingKeyRecurringDue, msg)
}

// RecurringIncomeDue publishes a due occurrence for a recurring income.
func (p *Publisher) RecurringIncomeDue(ctx context.Context, in *domain.RecurringIncome, occurredOn time.Time) error {
	msg := RecurrenceDueMessage{
		RecurrenceID: in.ID,
		UserID:       in.UserID,
		AccountID:    in.AccountID,
		Kind:         RecurrenceKindIncome,
		Name:         in.Name,
		Amount:       in.Amount.Amount.String(),
		Currency:     in.Amount.Currency,
		OccurredOn:   occurredOn,
		Timestamp:    time.Now().UTC(),
	}
	return p.publish(ctx, RoutingKeyRecurringDue, msg)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
