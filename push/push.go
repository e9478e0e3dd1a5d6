package push

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Albumate/Albumate-Back/logger"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	NotificationTypeInvitation         = "invitation"
	NotificationTypeInvitationAccepted = "invitation_accepted"
	NotificationTypeInvitationRejected = "invitation_rejected"
)

type Notification struct {
	Type  string            `json:"type"`
	Stamp int64             `json:"stamp"` // unix millis
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool

type ConnectedClient struct {
	sendFunc SendSocketFunc
}

func NewClient(send SendSocketFunc) *ConnectedClient {
	return &ConnectedClient{sendFunc: send}
}

// ConnectedClients is needed as a user may be connected more than once
type ConnectedClients []*ConnectedClient

var connectedUsers = cmap.New[ConnectedClients]()

func socketID(userID uint64) string {
	return strconv.FormatUint(userID, 10)
}

func Register(userID uint64, c *ConnectedClient) {
	connectedUsers.Upsert(socketID(userID), ConnectedClients{c}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if exist {
			return append(valueInMap, c)
		}
		return newValue
	})
}

func Unregister(userID uint64, c *ConnectedClient) {
	id := socketID(userID)
	connectedUsers.Upsert(id, ConnectedClients{}, func(exist bool, valueInMap, newValue ConnectedClients) ConnectedClients {
		if !exist {
			return newValue
		}
		for _, oc := range valueInMap {
			if oc == c {
				continue
			}
			newValue = append(newValue, oc)
		}
		return newValue
	})
	connectedUsers.RemoveCb(id, func(_ string, clients ConnectedClients, exists bool) bool {
		return exists && len(clients) == 0
	})
}

// Connections returns how many sockets the user has open
func Connections(userID uint64) int {
	clients, _ := connectedUsers.Get(socketID(userID))
	return len(clients)
}

// Send delivers the notification to every socket of the user and returns how many got it.
// Sockets that fail are dropped.
func Send(userID uint64, notification *Notification) int {
	clients, exist := connectedUsers.Get(socketID(userID))
	if !exist || len(clients) == 0 {
		return 0
	}
	if notification.Stamp == 0 {
		notification.Stamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(notification)
	if err != nil {
		logger.Error("encode notification", logger.ErrorField(err))
		return 0
	}
	sent := 0
	for _, c := range clients {
		if c.sendFunc(data) {
			sent++
			continue
		}
		Unregister(userID, c)
	}
	return sent
}
