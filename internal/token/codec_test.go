package token

import (
	"testing"
	"time"

	"collab-platform/internal/config"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(config.TokenConfig{
		AppSecret:      "app-secret",
		AuthSecret:     "auth-secret",
		RefreshSecret:  "refresh-secret",
		InternalSecret: "internal-secret",
	})
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func TestNewCodec_RequiresAllSecrets(t *testing.T) {
	_, err := NewCodec(config.TokenConfig{
		AppSecret:  "a",
		AuthSecret: "b",
		// refresh and internal missing
	})
	if err == nil {
		t.Fatalf("expected error for missing secrets")
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	id := Identity{UID: "user-1", Email: "u@test.com", Role: "developer", Name: "U Test", Company: "Acme"}
	raw, err := c.Issue(id, ClassAuth, now, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, ok := c.Verify(raw, ClassAuth, now.Add(time.Minute))
	if !ok {
		t.Fatalf("expected token to verify")
	}
	if got != id {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestVerify_CrossClassNeverVerifies(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()
	classes := []Class{ClassApp, ClassAuth, ClassRefresh}

	for _, issued := range classes {
		raw, err := c.Issue(Identity{UID: "u1"}, issued, now, 0)
		if err != nil {
			t.Fatalf("issue %s: %v", issued, err)
		}
		for _, checked := range classes {
			_, ok := c.Verify(raw, checked, now)
			if issued == checked && !ok {
				t.Fatalf("token issued as %s should verify as %s", issued, checked)
			}
			if issued != checked && ok {
				t.Fatalf("token issued as %s must not verify as %s", issued, checked)
			}
		}
	}
}

func TestVerify_Expiry(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	raw, err := c.Issue(Identity{UID: "u1"}, ClassAuth, now, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, ok := c.Verify(raw, ClassAuth, now); !ok {
		t.Fatalf("expected fresh token to verify")
	}
	if _, ok := c.Verify(raw, ClassAuth, now.Add(2*time.Minute)); ok {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerify_ExpiryIsExact(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	// A 1s-lifetime token must be dead at t+2s; there is no grace
	// window past exp.
	raw, err := c.Issue(Identity{UID: "u1"}, ClassAuth, now, time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, ok := c.Verify(raw, ClassAuth, now); !ok {
		t.Fatalf("expected fresh token to verify")
	}
	if _, ok := c.Verify(raw, ClassAuth, now.Add(2*time.Second)); ok {
		t.Fatalf("expected 1s-ttl token to fail verification at t+2s")
	}
}

func TestVerify_GarbageAndTampered(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, ok := c.Verify(raw, ClassAuth, now); ok {
			t.Fatalf("expected %q to fail verification", raw)
		}
	}

	raw, _ := c.Issue(Identity{UID: "u1"}, ClassAuth, now, 0)
	tampered := raw[:len(raw)-2] + "xx"
	if _, ok := c.Verify(tampered, ClassAuth, now); ok {
		t.Fatalf("expected tampered token to fail verification")
	}
}

func TestVerify_DefaultsRoleToClient(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	raw, _ := c.Issue(Identity{UID: "u1"}, ClassAuth, now, 0)
	id, ok := c.Verify(raw, ClassAuth, now)
	if !ok {
		t.Fatalf("expected token to verify")
	}
	if id.Role != RoleClient {
		t.Fatalf("expected default role %q, got %q", RoleClient, id.Role)
	}
}

func TestRenew(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	refresh, err := c.Issue(Identity{UID: "u7", Role: "client", Name: "N"}, ClassRefresh, now, 0)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	auth, id, ok := c.Renew(refresh, now.Add(time.Hour))
	if !ok {
		t.Fatalf("expected renew to succeed")
	}
	if id.UID != "u7" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	got, ok := c.Verify(auth, ClassAuth, now.Add(time.Hour))
	if !ok || got.UID != "u7" {
		t.Fatalf("renewed token did not verify as auth: ok=%v id=%+v", ok, got)
	}

	// Expired refresh is a hard stop.
	if _, _, ok := c.Renew(refresh, now.Add(8*24*time.Hour)); ok {
		t.Fatalf("expected renew to fail for expired refresh token")
	}
	// An auth token is not a refresh token.
	if _, _, ok := c.Renew(auth, now.Add(time.Hour)); ok {
		t.Fatalf("expected renew to fail for auth-class input")
	}
}

func TestInternalToken_OriginMatch(t *testing.T) {
	c := testCodec(t)
	now := time.Unix(1700000000, 0).UTC()

	raw, err := c.IssueInternal("collab-api", "u1", now, 0)
	if err != nil {
		t.Fatalf("issue internal: %v", err)
	}

	uid, ok := c.VerifyInternal(raw, "collab-api", now)
	if !ok || uid != "u1" {
		t.Fatalf("expected internal token to verify, ok=%v uid=%q", ok, uid)
	}
	if _, ok := c.VerifyInternal(raw, "other-service", now); ok {
		t.Fatalf("expected origin mismatch to fail")
	}
	if _, ok := c.VerifyInternal(raw, "collab-api", now.Add(10*time.Minute)); ok {
		t.Fatalf("expected expired internal token to fail")
	}
}
