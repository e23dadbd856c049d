package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionData is what a login stores server-side for one session
type SessionData struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	RefreshToken string `json:"refreshToken"`
}

// SessionStore keeps encrypted sessions in Redis. Payloads are sealed with
// AES-GCM so a leaked Redis dump does not expose refresh tokens.
type SessionStore struct {
	client        *redis.Client
	encryptionKey []byte
}

// NewSessionStore creates a session store from a 64-hex-char key
func NewSessionStore(client *redis.Client, encryptionKeyHex string) (*SessionStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &SessionStore{client: client, encryptionKey: key}, nil
}

// Create stores an encrypted session under the given id
func (s *SessionStore) Create(ctx context.Context, sessionID string, data *SessionData, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	sealed, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, sealed, ttl).Err()
}

// Get retrieves and decrypts a session
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*SessionData, error) {
	sealed, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	plain, err := s.decrypt(sealed)
	if err != nil {
		return nil, err
	}
	var data SessionData
	if err := json.Unmarshal(plain, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Delete removes a session, ending it server-side
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

func (s *SessionStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

func (s *SessionStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
