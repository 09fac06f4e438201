package protocol

import "testing"

func TestShutdownInfoMessageRoundTrip(t *testing.T) {
	original := &ShutdownInfoMessage{ReasonCode: 3, MaintenanceEndUnix: 1780000000}

	decoded, err := DecodeShutdownInfoMessage(original.Encode())
	if err != nil {
		t.Fatalf("DecodeShutdownInfoMessage failed: %v", err)
	}
	if decoded.ReasonCode != original.ReasonCode {
		t.Errorf("ReasonCode = %d, want %d", decoded.ReasonCode, original.ReasonCode)
	}
	if decoded.MaintenanceEndUnix != original.MaintenanceEndUnix {
		t.Errorf("MaintenanceEndUnix = %d, want %d", decoded.MaintenanceEndUnix, original.MaintenanceEndUnix)
	}
}

func TestShutdownInfoMessageMalformed(t *testing.T) {
	if _, err := DecodeShutdownInfoMessage([]byte{0x01}); err != ErrMalformedFrame {
		t.Errorf("err = %v, want ErrMalformedFrame", err)
	}
}

func TestSpeedUpHeroUpgradeMessageRoundTrip(t *testing.T) {
	original := &SpeedUpHeroUpgradeMessage{HeroID: 42, GemsSpent: 500}

	decoded, err := DecodeSpeedUpHeroUpgradeMessage(original.Encode())
	if err != nil {
		t.Fatalf("DecodeSpeedUpHeroUpgradeMessage failed: %v", err)
	}
	if decoded.HeroID != original.HeroID {
		t.Errorf("HeroID = %d, want %d", decoded.HeroID, original.HeroID)
	}
	if decoded.GemsSpent != original.GemsSpent {
		t.Errorf("GemsSpent = %d, want %d", decoded.GemsSpent, original.GemsSpent)
	}
}

func TestSpeedUpHeroUpgradeMessageMalformed(t *testing.T) {
	if _, err := DecodeSpeedUpHeroUpgradeMessage([]byte{0x01, 0x02}); err != ErrMalformedFrame {
		t.Errorf("err = %v, want ErrMalformedFrame", err)
	}
}
