package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"id":        "ID",
		"userId":    "user ID",
		"requestId": "request ID",
		"commentId": "comment ID",
		"tag":       "tag",
	}
	for in, want := range cases {
		if got := humanizeParam(in); got != want {
			t.Errorf("humanizeParam(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=-3", 20, 0},
		{"?limit=9999", maxPaginationLimit, 0},
		{"?offset=-1", 20, 0},
		{"?limit=abc", 20, 0},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		if err != nil {
			t.Fatalf("app.Test %q: %v", tc.query, err)
		}
		_ = resp.Body.Close()
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("query %q: got %+v, want limit=%d offset=%d", tc.query, got, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestParseIDWritesBadRequest(t *testing.T) {
	t.Parallel()

	s := &Server{}
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for _, path := range []string{"/things/abc", "/things/0", "/things/-4"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("app.Test %q: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/things/42", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("valid id: expected 200, got %d", resp.StatusCode)
	}
}
