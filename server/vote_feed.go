package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/askx/models"
	"go.uber.org/zap"
)

const (
	feedBuffer     = 16
	feedPingPeriod = 30 * time.Second
	feedWriteWait  = 10 * time.Second
)

// VoteUpdate is pushed to feed subscribers after every committed vote.
type VoteUpdate struct {
	Type       models.TargetType `json:"type"`
	TypeID     string            `json:"typeId"`
	Upvotes    int64             `json:"upvotes"`
	Downvotes  int64             `json:"downvotes"`
	VoteResult int64             `json:"voteResult"`
}

type feedKey struct {
	targetType models.TargetType
	typeID     string
}

type feedSub struct {
	ch chan VoteUpdate
}

// voteFeed fans vote updates out to websocket subscribers of a target.
// Subscribers that fall behind are dropped.
type voteFeed struct {
	mu     sync.Mutex
	subs   map[feedKey]map[*feedSub]struct{}
	closed bool
	log    *zap.Logger
}

func newVoteFeed(log *zap.Logger) *voteFeed {
	return &voteFeed{
		subs: make(map[feedKey]map[*feedSub]struct{}),
		log:  log,
	}
}

func (f *voteFeed) subscribe(key feedKey) *feedSub {
	sub := &feedSub{ch: make(chan VoteUpdate, feedBuffer)}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(sub.ch)
		return sub
	}
	if f.subs[key] == nil {
		f.subs[key] = make(map[*feedSub]struct{})
	}
	f.subs[key][sub] = struct{}{}
	return sub
}

func (f *voteFeed) unsubscribe(key feedKey, sub *feedSub) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(key, sub)
}

func (f *voteFeed) removeLocked(key feedKey, sub *feedSub) {
	subs, ok := f.subs[key]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(f.subs, key)
	}
}

func (f *voteFeed) publish(update VoteUpdate) {
	key := feedKey{targetType: update.Type, typeID: update.TypeID}
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs[key] {
		select {
		case sub.ch <- update:
		default:
			f.log.Warn("dropping slow vote feed subscriber", zap.String("type_id", update.TypeID))
			f.removeLocked(key, sub)
		}
	}
}

func (f *voteFeed) subscriberCount(key feedKey) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[key])
}

// close ends every subscription; later subscriptions end immediately.
func (f *voteFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for key, subs := range f.subs {
		for sub := range subs {
			f.removeLocked(key, sub)
		}
	}
}

func (s *Server) upgrader() *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(s.Config.AllowedOrigins))
	for _, o := range s.Config.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		},
	}
}

func (s *Server) handleVoteFeed() gin.HandlerFunc {
	upgrader := s.upgrader()
	return func(c *gin.Context) {
		var q models.TallyQuery
		if err := decodeQuery(c, &q); err != nil {
			s.respondError(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			s.Log.Warn("vote feed upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		key := feedKey{targetType: models.TargetType(q.Type), typeID: q.TypeID}
		sub := s.feed.subscribe(key)
		defer s.feed.unsubscribe(key, sub)

		// The reader only watches for the client going away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(feedPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case update, ok := <-sub.ch:
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
					return
				}
				if err := conn.WriteJSON(update); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
