package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultMemory     = 64 * 1024
	defaultIterations = 3
	defaultThreads    = 1
	defaultSaltLength = 16
	defaultKeyLength  = 32
)

// Argon2idHash is a parsed PHC-format argon2id password hash.
type Argon2idHash struct {
	m    uint32
	t    uint32
	p    uint8
	salt []byte
	sum  []byte
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	salt := make([]byte, defaultSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := argon2.IDKey([]byte(password), salt, defaultIterations, defaultMemory, defaultThreads, defaultKeyLength)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		defaultMemory,
		defaultIterations,
		defaultThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

func ParseArgon2idHash(phc string) (*Argon2idHash, error) {
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, errors.New("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return nil, fmt.Errorf("unsupported argon2id version: %s", parts[2])
	}
	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return nil, errors.New("invalid argon2id params")
	}
	h := &Argon2idHash{}
	for _, param := range params {
		kv := strings.SplitN(param, "=", 2)
		if len(kv) != 2 {
			return nil, errors.New("invalid argon2id params")
		}
		switch kv[0] {
		case "m":
			val, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, errors.New("invalid argon2id memory")
			}
			h.m = uint32(val)
		case "t":
			val, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, errors.New("invalid argon2id iterations")
			}
			h.t = uint32(val)
		case "p":
			val, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil {
				return nil, errors.New("invalid argon2id parallelism")
			}
			h.p = uint8(val)
		default:
			return nil, errors.New("invalid argon2id params")
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid argon2id salt")
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, errors.New("invalid argon2id hash")
	}
	h.salt = salt
	h.sum = sum
	return h, nil
}

func (h *Argon2idHash) Verify(password string) bool {
	sum := argon2.IDKey([]byte(password), h.salt, h.t, h.m, h.p, uint32(len(h.sum)))
	return subtle.ConstantTimeCompare(sum, h.sum) == 1
}
