package config

import "testing"

func maxScore(v int64) *int64 { return &v }

func TestValidateLevels(t *testing.T) {
	tests := []struct {
		name    string
		levels  []LevelTier
		wantErr bool
	}{
		{
			name:   "default levels",
			levels: DefaultLevels(),
		},
		{
			name: "single open tier",
			levels: []LevelTier{
				{Name: "新生", MinScore: 0},
			},
		},
		{
			name:    "empty",
			levels:  nil,
			wantErr: true,
		},
		{
			name: "first tier not zero",
			levels: []LevelTier{
				{Name: "新生", MinScore: 10, MaxScore: maxScore(100)},
				{Name: "常客", MinScore: 100},
			},
			wantErr: true,
		},
		{
			name: "gap between tiers",
			levels: []LevelTier{
				{Name: "新生", MinScore: 0, MaxScore: maxScore(100)},
				{Name: "常客", MinScore: 200},
			},
			wantErr: true,
		},
		{
			name: "overlapping tiers",
			levels: []LevelTier{
				{Name: "新生", MinScore: 0, MaxScore: maxScore(100)},
				{Name: "常客", MinScore: 50},
			},
			wantErr: true,
		},
		{
			name: "middle tier missing max",
			levels: []LevelTier{
				{Name: "新生", MinScore: 0},
				{Name: "常客", MinScore: 100},
			},
			wantErr: true,
		},
		{
			name: "last tier bounded",
			levels: []LevelTier{
				{Name: "新生", MinScore: 0, MaxScore: maxScore(100)},
				{Name: "常客", MinScore: 100, MaxScore: maxScore(500)},
			},
			wantErr: true,
		},
		{
			name: "empty interval",
			levels: []LevelTier{
				{Name: "新生", MinScore: 0, MaxScore: maxScore(0)},
				{Name: "常客", MinScore: 0},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLevels(tt.levels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLevels() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
