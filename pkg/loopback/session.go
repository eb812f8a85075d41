package loopback

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// sessionVersion is the current session blob format version.
const sessionVersion = 1

// sessionData is the content of a session blob.
// CBOR: { 1: version, 2: sessionID, 3: port, 4: realm, 5: issuedAt }
type sessionData struct {
	Version   uint8     `cbor:"1,keyasint"`
	SessionID []byte    `cbor:"2,keyasint"`
	Port      uint16    `cbor:"3,keyasint"`
	Realm     string    `cbor:"4,keyasint"`
	IssuedAt  time.Time `cbor:"5,keyasint"`
}

var (
	sessionEncMode cbor.EncMode
	sessionDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	sessionEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create session CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	sessionDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create session CBOR decoder mode: %v", err))
	}
}

// encodeSession returns the CBOR payload followed by its BLAKE2b-256 digest.
func encodeSession(d sessionData) ([]byte, error) {
	payload, err := sessionEncMode.Marshal(d)
	if err != nil {
		return nil, err
	}
	sum := blake2b.Sum256(payload)
	return append(payload, sum[:]...), nil
}

// decodeSession verifies the digest and decodes the payload.
func decodeSession(blob []byte) (sessionData, uuid.UUID, error) {
	if len(blob) <= blake2b.Size256 {
		return sessionData{}, uuid.Nil, fmt.Errorf("%w: %d bytes", ErrMalformedSession, len(blob))
	}

	payload := blob[:len(blob)-blake2b.Size256]
	digest := blob[len(blob)-blake2b.Size256:]
	sum := blake2b.Sum256(payload)
	if !bytes.Equal(sum[:], digest) {
		return sessionData{}, uuid.Nil, fmt.Errorf("%w: digest mismatch", ErrMalformedSession)
	}

	var d sessionData
	if err := sessionDecMode.Unmarshal(payload, &d); err != nil {
		return sessionData{}, uuid.Nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	if d.Version != sessionVersion {
		return sessionData{}, uuid.Nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedSession, d.Version)
	}
	id, err := uuid.FromBytes(d.SessionID)
	if err != nil {
		return sessionData{}, uuid.Nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return d, id, nil
}
