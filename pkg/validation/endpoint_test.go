package validation

import "testing"

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{
			name:     "valid fcm endpoint",
			endpoint: "https://fcm.googleapis.com/fcm/send/abc123",
			wantErr:  false,
		},
		{
			name:     "valid mozilla endpoint",
			endpoint: "https://updates.push.services.mozilla.com/wpush/v2/abc",
			wantErr:  false,
		},
		{
			name:     "valid apple subdomain",
			endpoint: "https://web.push.apple.com/QGbvtvGr",
			wantErr:  false,
		},
		{
			name:     "valid windows subdomain",
			endpoint: "https://wns2-par02p.notify.windows.com/w/?token=abc",
			wantErr:  false,
		},
		{
			name:     "empty endpoint",
			endpoint: "",
			wantErr:  true,
		},
		{
			name:     "http scheme rejected",
			endpoint: "http://fcm.googleapis.com/fcm/send/abc",
			wantErr:  true,
		},
		{
			name:     "unknown host rejected",
			endpoint: "https://evil.example.com/push",
			wantErr:  true,
		},
		{
			name:     "suffix must match a full label",
			endpoint: "https://notfcm.googleapis.com.example.com/push",
			wantErr:  true,
		},
		{
			name:     "not a URL",
			endpoint: "://///",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.endpoint)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEndpoint(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
			}
		})
	}
}
