package importjob

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"germplasm-accession-importer/logging"
	"germplasm-accession-importer/utils"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var (
	ErrClosed        = errors.New("manager has been closed")
	ErrQueueNotFound = errors.New("queue not found in rabbit mq")
)

type MQConnectionConfig struct {
	User  string `yaml:"user"`
	Pwd   string `yaml:"pwd"`
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	VHost string `yaml:"vhost"`
}

func (c *MQConnectionConfig) ToURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", c.User, c.Pwd, c.Host, c.Port, c.VHost)
}

func GenerateTestMQConnectionConfig() MQConnectionConfig {
	return MQConnectionConfig{
		User: "guest",
		Pwd:  "guest",
		Host: "localhost",
		Port: "5672",
	}
}

/*
rabbitMQManager 持有一个连接，按队列名发布 JSON 消息和注册消费者。
队列声明为持久化，消息在回调成功后才确认，回调失败的消息不重新入队。
*/
type rabbitMQManager struct {
	logger   *logrus.Logger
	conn     *amqp.Connection
	queueMap map[string]*amqp.Queue

	listenLock sync.Mutex
	listeners  map[string]*amqp.Channel

	closer sync.Once
}

func newRabbitMQManager(url string, queueList []string) (*rabbitMQManager, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, utils.WrapError(err, "dial rabbit mq fail")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, utils.WrapError(err, "create channel fail")
	}
	defer ch.Close()

	queueMap := make(map[string]*amqp.Queue, len(queueList))
	for _, queueName := range queueList {
		q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
		if err != nil {
			_ = conn.Close()
			return nil, utils.WrapErrorf(err, "declare queue [%s] fail", queueName)
		}
		queueMap[queueName] = &q
	}

	return &rabbitMQManager{
		logger:    logging.NewLogger(),
		conn:      conn,
		queueMap:  queueMap,
		listeners: make(map[string]*amqp.Channel),
	}, nil
}

func (mq *rabbitMQManager) Close() error {
	var err error
	closeCalled := false

	mq.closer.Do(func() {
		closeCalled = true

		mq.listenLock.Lock()
		for queueName, ch := range mq.listeners {
			mq.logger.Infof("stop listening queue [%s] for closing the manager", queueName)
			_ = ch.Close()
		}
		mq.listeners = nil
		mq.listenLock.Unlock()

		err = mq.conn.Close()
	})

	if !closeCalled {
		return ErrClosed
	}
	return err
}

func (mq *rabbitMQManager) PublishJSON(queueName string, messageID string, obj any) error {
	queue, ok := mq.queueMap[queueName]
	if !ok {
		return ErrQueueNotFound
	}

	body, err := json.Marshal(obj)
	if err != nil {
		return utils.WrapError(err, "json marshal fail")
	}

	ch, err := mq.conn.Channel()
	if err != nil {
		return utils.WrapError(err, "create channel fail")
	}
	defer ch.Close()

	err = ch.Publish("", queue.Name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    messageID,
		Body:         body,
	})
	return utils.WrapErrorf(err, "publish to [%s] fail", queueName)
}

/*
ListenOn 在独立的 channel 上消费 queueName，每次只取一条消息，callback 依次执行。
对同一队列重复调用会替换之前的消费者。
*/
func (mq *rabbitMQManager) ListenOn(queueName string, callback func(msg *amqp.Delivery) error) error {
	queue, ok := mq.queueMap[queueName]
	if !ok {
		return ErrQueueNotFound
	}

	ch, err := mq.conn.Channel()
	if err != nil {
		return utils.WrapError(err, "create channel fail")
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return utils.WrapError(err, "set qos fail")
	}

	msgs, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return utils.WrapError(err, "create delivery-chan fail")
	}

	mq.listenLock.Lock()
	defer mq.listenLock.Unlock()

	if mq.listeners == nil {
		_ = ch.Close()
		return ErrClosed
	}
	if old, ok := mq.listeners[queueName]; ok {
		_ = old.Close()
	}
	mq.listeners[queueName] = ch

	go mq.consume(queueName, msgs, callback)
	return nil
}

func (mq *rabbitMQManager) consume(queueName string, msgs <-chan amqp.Delivery, callback func(msg *amqp.Delivery) error) {
	for msg := range msgs {
		mq.logger.Debugf("receive message [%s] from queue [%s]", msg.MessageId, queueName)

		if err := callback(&msg); err != nil {
			mq.logger.WithError(err).Errorf("handle message [%s] from queue [%s] fail", msg.MessageId, queueName)
			if err := msg.Nack(false, false); err != nil {
				mq.logger.WithError(err).Errorf("nack message [%s] fail", msg.MessageId)
			}
			continue
		}

		if err := msg.Ack(false); err != nil {
			mq.logger.WithError(err).Errorf("ack message [%s] fail", msg.MessageId)
		}
	}

	mq.logger.Infof("exiting loop for listening queue [%s] due to channel closed", queueName)
}
