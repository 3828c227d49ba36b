package handlers

import (
	"errors"
	"net/http"
	"time"

	"messana_bridge/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	maxMsgSize  = 1 << 12 // 4 KB
	updateQueue = 16
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type   string      `json:"type"` // snapshot | error
	Device string      `json:"device,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once a UI host is configured
}

// @Summary      Snapshot stream
// @Description  WebSocket. Sends the current snapshot on connect, then one message per refresh cycle: type=snapshot on success, type=error on failure. Omit device to follow every device.
// @Tags         devices
// @Param        device  query  string  false  "Device name"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	devices, ok := h.wsDevices(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	// Subscribe before the initial send so no cycle falls between the two.
	updates := make(chan service.Update, updateQueue)
	cancel := h.services.Devices.Subscribe(func(u service.Update) {
		if !devices[u.Device] {
			return
		}
		select {
		case updates <- u:
		default:
			// slow client; it will catch up on the next cycle
		}
	})
	defer cancel()

	for name := range devices {
		if err := h.sendSnapshot(conn, name); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed_initial", "device", name, "err", err)
			}
			return
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case u := <-updates:
			if err := h.sendUpdate(conn, u); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "device", u.Device, "err", err)
				}
				return
			}
		}
	}
}

// wsDevices resolves the ?device filter before the upgrade so an unknown name
// is a plain 404.
func (h *Handler) wsDevices(c *gin.Context) (map[string]bool, bool) {
	out := make(map[string]bool)
	if name := c.Query("device"); name != "" {
		if _, err := h.services.Devices.Device(name); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return nil, false
		}
		out[name] = true
		return out, true
	}
	for _, name := range h.services.Devices.Names() {
		out[name] = true
	}
	return out, true
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendSnapshot writes the retained snapshot of one device. A device without a
// snapshot yet is skipped.
func (h *Handler) sendSnapshot(conn *websocket.Conn, device string) error {
	view, err := h.services.GetSnapshot(device)
	if errors.Is(err, service.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}
	return writeEnvelope(conn, wsEnvelope{Type: "snapshot", Device: device, Data: view})
}

func (h *Handler) sendUpdate(conn *websocket.Conn, u service.Update) error {
	if u.Err != nil {
		return writeEnvelope(conn, wsEnvelope{Type: "error", Device: u.Device, Error: u.Err.Error()})
	}
	return h.sendSnapshot(conn, u.Device)
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
