package balancer

import (
	"strconv"

	"github.com/segmentio/kafka-go"
)

// UserBalancer partitions by user id so every event for one user lands on the
// same partition and stays ordered.
type UserBalancer struct {
	numPartitions int
}

func NewUserBalancer(numPartitions int) *UserBalancer {
	return &UserBalancer{numPartitions: numPartitions}
}

func (b *UserBalancer) Balance(msg kafka.Message, partitions ...int) (partition int) {
	userID, err := strconv.Atoi(string(msg.Key))
	if err != nil {
		return 0
	}

	if len(partitions) != 0 {
		return partitions[userID%len(partitions)]
	}

	return userID % b.numPartitions
}

var _ kafka.Balancer = (*UserBalancer)(nil)
