package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/notificaciones", "/notificaciones"},
		{"/notificaciones/unread-count", "/notificaciones/unread-count"},
		{"/notificaciones/read-all", "/notificaciones/read-all"},
		{"/notificaciones/abc123/read", "/notificaciones/:id/read"},
		{"/tramites", "/tramites"},
		{"/tramites?page=2&limit=10", "/tramites"},
		{"/tramites/TD-2024-000123", "/tramites/:id"},
		{"/documentos/abc123/content", "/documentos/:id/content"},
		{"/auth/login", "/auth/login"},
		{"/estadisticas/resumen", "/estadisticas/resumen"},
	}
	for _, tc := range cases {
		if got := CanonicalPath(tc.in); got != tc.want {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
