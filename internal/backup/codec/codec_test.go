package codec

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// normalize runs v through a JSON round trip so literals compare equal to
// decrypted values (numbers become float64, structs become maps).
func normalize(t *testing.T, v any) any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

// scenarioPayload mirrors a typical export: settings plus one service
// configuration with an API key.
func scenarioPayload() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"state": map[string]any{"theme": "light"},
		},
		"serviceConfigs": []any{
			map[string]any{
				"id":     "test-1",
				"type":   "sonarr",
				"apiKey": "test-key-12345",
			},
		},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	const password = "TestPassword123!@#"

	payloads := map[string]any{
		"scenario":  scenarioPayload(),
		"unicode":   map[string]any{"title": "千と千尋の神隠し", "note": "crème brûlée 🎬🍿", "marks": "é"},
		"array":     []any{"a", float64(1), true, nil},
		"nested":    map[string]any{"a": map[string]any{"b": map[string]any{"c": []any{"deep"}}}},
		"empty map": map[string]any{},
	}

	for _, version := range []Version{VersionLegacy, VersionAEAD} {
		c, err := New(version)
		if err != nil {
			t.Fatalf("New(%s): %v", version, err)
		}

		for name, payload := range payloads {
			t.Run(string(version)+"/"+name, func(t *testing.T) {
				artifact, err := c.Encrypt(payload, password)
				if err != nil {
					t.Fatalf("Encrypt() error = %v", err)
				}
				if artifact.Salt == "" {
					t.Fatal("artifact salt should not be empty")
				}

				got, err := c.Decrypt(artifact.EncryptedData, password, artifact.Salt, "")
				if err != nil {
					t.Fatalf("Decrypt() error = %v", err)
				}

				want := normalize(t, payload)
				if !reflect.DeepEqual(got, want) {
					t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, want)
				}
			})
		}
	}
}

func TestCodec_ScenarioAPIKeySurvives(t *testing.T) {
	const password = "TestPassword123!@#"
	c := Default()

	artifact, err := c.Encrypt(scenarioPayload(), password)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	value, err := c.Decrypt(artifact.EncryptedData, password, artifact.Salt, "")
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}

	root, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("decrypted value is %T, want map", value)
	}
	services, ok := root["serviceConfigs"].([]any)
	if !ok || len(services) != 1 {
		t.Fatalf("serviceConfigs = %#v", root["serviceConfigs"])
	}
	svc := services[0].(map[string]any)
	if svc["apiKey"] != "test-key-12345" {
		t.Errorf("apiKey = %v, want test-key-12345", svc["apiKey"])
	}
}

func TestCodec_FreshSaltPerCall(t *testing.T) {
	payload := map[string]any{"k": "v"}

	for _, version := range []Version{VersionLegacy, VersionAEAD} {
		c, _ := New(version)

		a, err := c.Encrypt(payload, "same-password")
		if err != nil {
			t.Fatal(err)
		}
		b, err := c.Encrypt(payload, "same-password")
		if err != nil {
			t.Fatal(err)
		}

		if a.Salt == b.Salt {
			t.Errorf("%s: repeated encryption reused a salt", version)
		}
		if a.EncryptedData == b.EncryptedData {
			t.Errorf("%s: different salts should yield different ciphertext", version)
		}
	}
}

func TestCodec_WrongPassword(t *testing.T) {
	payload := scenarioPayload()
	want := normalize(t, payload)

	for _, version := range []Version{VersionLegacy, VersionAEAD} {
		t.Run(string(version), func(t *testing.T) {
			c, _ := New(version)

			artifact, err := c.Encrypt(payload, "correct horse battery")
			if err != nil {
				t.Fatal(err)
			}

			got, err := c.Decrypt(artifact.EncryptedData, "wrong password", artifact.Salt, "")
			if err != nil {
				// The usual outcome: unparseable plaintext (v1) or a
				// failed auth tag (v2).
				if !errors.Is(err, ErrDecryptionFailed) {
					t.Errorf("error = %v, want ErrDecryptionFailed", err)
				}
				return
			}

			// The legacy scheme can accidentally parse garbage; it must
			// never silently return the original payload.
			if reflect.DeepEqual(got, want) {
				t.Error("wrong password returned the original payload")
			}
		})
	}
}

func TestCodec_AEADWrongPasswordAlwaysErrors(t *testing.T) {
	c := Default()
	artifact, err := c.Encrypt(map[string]any{"k": "v"}, "password-one")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Decrypt(artifact.EncryptedData, "password-two", artifact.Salt, ""); err == nil {
		t.Error("v2 must reject a wrong password via the auth tag")
	}
}

func TestCodec_CorruptedArtifact(t *testing.T) {
	for _, version := range []Version{VersionLegacy, VersionAEAD} {
		t.Run(string(version), func(t *testing.T) {
			c, _ := New(version)
			artifact, err := c.Encrypt(scenarioPayload(), "password")
			if err != nil {
				t.Fatal(err)
			}

			// Truncation destroys the JSON structure (v1) or the auth tag (v2).
			corrupted := artifact.EncryptedData[:len(artifact.EncryptedData)/2]
			if _, err := c.Decrypt(corrupted, "password", artifact.Salt, ""); !errors.Is(err, ErrDecryptionFailed) {
				t.Errorf("error = %v, want ErrDecryptionFailed", err)
			}
		})
	}
}

func TestCodec_ErrorMessageCoversBothCauses(t *testing.T) {
	msg := ErrDecryptionFailed.Error()
	for _, phrase := range []string{"incorrect password", "Invalid JSON structure"} {
		if !strings.Contains(msg, phrase) {
			t.Errorf("ErrDecryptionFailed message %q missing %q", msg, phrase)
		}
	}
}

func TestCodec_NonSerializablePayload(t *testing.T) {
	for _, version := range []Version{VersionLegacy, VersionAEAD} {
		c, _ := New(version)
		if _, err := c.Encrypt(map[string]any{"ch": make(chan int)}, "pw"); !errors.Is(err, ErrSerialization) {
			t.Errorf("%s: error = %v, want ErrSerialization", version, err)
		}
	}
}

func TestNew_UnknownVersion(t *testing.T) {
	if _, err := New("v3"); !errors.Is(err, ErrUnknownVersion) {
		t.Errorf("error = %v, want ErrUnknownVersion", err)
	}
}

func TestCodec_LegacySaltEncoding(t *testing.T) {
	c, _ := New(VersionLegacy)
	artifact, err := c.Encrypt(map[string]any{"k": "v"}, "pw")
	if err != nil {
		t.Fatal(err)
	}

	// 16 random bytes, hex encoded.
	if len(artifact.Salt) != 32 {
		t.Errorf("salt length = %d, want 32", len(artifact.Salt))
	}
	for _, r := range artifact.Salt {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Errorf("salt %q contains non-hex character %q", artifact.Salt, r)
		}
	}
}
