package protocol

import "encoding/binary"

// Gameplay opcodes, illustrative of traffic carried once a session reaches
// SECOND_KEY.
const (
	OpShutdownInfo       uint16 = 24122
	OpSpeedUpHeroUpgrade uint16 = 14325
)

// ShutdownInfoMessage is a server-to-client notice that the server is
// shutting down for maintenance.
type ShutdownInfoMessage struct {
	ReasonCode         uint8
	MaintenanceEndUnix int64
}

// Encode serializes a ShutdownInfoMessage payload (1 + 8 bytes).
func (m *ShutdownInfoMessage) Encode() []byte {
	buf := make([]byte, 1+8)
	buf[0] = m.ReasonCode
	binary.BigEndian.PutUint64(buf[1:9], uint64(m.MaintenanceEndUnix))
	return buf
}

// DecodeShutdownInfoMessage deserializes a ShutdownInfoMessage payload.
func DecodeShutdownInfoMessage(data []byte) (*ShutdownInfoMessage, error) {
	if len(data) != 1+8 {
		return nil, ErrMalformedFrame
	}
	return &ShutdownInfoMessage{
		ReasonCode:         data[0],
		MaintenanceEndUnix: int64(binary.BigEndian.Uint64(data[1:9])),
	}, nil
}

// SpeedUpHeroUpgradeMessage is a client-to-server command spending gems to
// finish a hero upgrade instantly.
type SpeedUpHeroUpgradeMessage struct {
	HeroID    uint32
	GemsSpent uint32
}

// Encode serializes a SpeedUpHeroUpgradeMessage payload (4 + 4 bytes).
func (m *SpeedUpHeroUpgradeMessage) Encode() []byte {
	buf := make([]byte, 4+4)
	binary.BigEndian.PutUint32(buf[0:4], m.HeroID)
	binary.BigEndian.PutUint32(buf[4:8], m.GemsSpent)
	return buf
}

// DecodeSpeedUpHeroUpgradeMessage deserializes a SpeedUpHeroUpgradeMessage
// payload.
func DecodeSpeedUpHeroUpgradeMessage(data []byte) (*SpeedUpHeroUpgradeMessage, error) {
	if len(data) != 4+4 {
		return nil, ErrMalformedFrame
	}
	return &SpeedUpHeroUpgradeMessage{
		HeroID:    binary.BigEndian.Uint32(data[0:4]),
		GemsSpent: binary.BigEndian.Uint32(data[4:8]),
	}, nil
}
