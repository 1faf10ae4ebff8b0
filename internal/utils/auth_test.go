package utils

import (
	"testing"

	"github.com/liftcare-id/liftcare/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	// Test Hashing
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	// Test Comparison (Success)
	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	// Test Comparison (Failure)
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestUserToken(t *testing.T) {
	secret := "test-secret-key-12345"
	user := &models.User{
		ID:    42,
		Email: "teknisi@liftcare.com",
		Role:  models.RoleTeknisi,
		Name:  "Budi",
	}

	token, err := GenerateUserToken(user, secret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("Token should not be empty")
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Errorf("Expected email %s, got %s", user.Email, claims.Email)
	}
	if claims.Role != models.RoleTeknisi {
		t.Errorf("Expected role teknisi, got %s", claims.Role)
	}
	if claims.QRAccess {
		t.Error("User token should not carry qr_access")
	}
	if claims.IsQRSentinel() {
		t.Error("User token should not be the QR sentinel")
	}

	// Validation must fail with the wrong key
	if _, err := ValidateToken(token, "wrong-key"); err == nil {
		t.Error("Validation should fail with wrong key")
	}
}

func TestQRSessionToken(t *testing.T) {
	secret := "test-secret-key-12345"

	token, err := GenerateQRSessionToken(7, secret)
	if err != nil {
		t.Fatalf("Failed to generate QR session token: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate QR session token: %v", err)
	}

	if claims.UserID != QRSentinelID {
		t.Errorf("Expected sentinel subject id %d, got %d", QRSentinelID, claims.UserID)
	}
	if claims.Role != models.RoleTeknisi {
		t.Errorf("Expected role teknisi, got %s", claims.Role)
	}
	if !claims.QRAccess {
		t.Error("QR session token must carry qr_access")
	}
	if claims.LiftID != 7 {
		t.Errorf("Expected lift_id 7, got %d", claims.LiftID)
	}
	if !claims.IsQRSentinel() {
		t.Error("QR session claims should report as sentinel")
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	if err != nil {
		t.Fatalf("RandomHex failed: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(a))
	}

	b, _ := RandomHex(16)
	if a == b {
		t.Error("Two random tokens should not collide")
	}
}

func TestRandomPin(t *testing.T) {
	for i := 0; i < 50; i++ {
		pin, err := RandomPin()
		if err != nil {
			t.Fatalf("RandomPin failed: %v", err)
		}
		if len(pin) != 4 {
			t.Fatalf("Expected 4-digit PIN, got %q", pin)
		}
		if pin[0] == '0' {
			t.Fatalf("PIN should be in 1000-9999 range, got %q", pin)
		}
	}
}
