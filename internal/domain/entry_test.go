package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModEntryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   ModEntry
		wantErr string
	}{
		{
			name:  "valid",
			entry: ModEntry{ID: "1", ModName: "Sit1", Animation: "sit", Pose: 2},
		},
		{
			name:  "animation is free text",
			entry: ModEntry{ID: "1", ModName: "Sit1", Animation: "not-a-real-emote"},
		},
		{
			name:    "missing id",
			entry:   ModEntry{ModName: "Sit1"},
			wantErr: "id is required",
		},
		{
			name:    "missing mod name",
			entry:   ModEntry{ID: "1", Animation: "sit"},
			wantErr: "mod name is required",
		},
		{
			name:    "negative pose",
			entry:   ModEntry{ID: "1", ModName: "Sit1", Pose: -1},
			wantErr: "pose must not be negative",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.entry.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidEntry)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestModEntryNormalizeStripsCommandSlash(t *testing.T) {
	t.Parallel()

	entry := ModEntry{ID: " 3 ", ModName: " Sit1 ", Label: "  ", Animation: " /groundsit ", Category: " Chairs "}
	entry.Normalize()

	assert.Equal(t, ModEntry{ID: "3", ModName: "Sit1", Animation: "groundsit", Category: "Chairs"}, entry)
	assert.Equal(t, "Sit1", entry.DisplayLabel())
}

func TestModEntryWantsPose(t *testing.T) {
	t.Parallel()

	assert.True(t, ModEntry{Animation: "sit", Pose: 2}.WantsPose())
	assert.True(t, ModEntry{Animation: "Doze", Pose: 1}.WantsPose())
	assert.False(t, ModEntry{Animation: "sit", Pose: 0}.WantsPose())
	assert.False(t, ModEntry{Animation: "dance", Pose: 3}.WantsPose())
	assert.False(t, ModEntry{Pose: 3}.WantsPose())
}

func TestEmoteGroupSelectsSharedAnimationOnly(t *testing.T) {
	t.Parallel()

	entries := []ModEntry{
		{ID: "1", ModName: "Sit1", Animation: "sit"},
		{ID: "2", ModName: "Dance", Animation: "dance"},
		{ID: "3", ModName: "Sit2", Animation: "sit"},
		{ID: "4", ModName: "Hat"},
	}

	group := EmoteGroup(entries, "sit")
	assert.Equal(t, []ModEntry{entries[0], entries[2]}, group)
	assert.Nil(t, EmoteGroup(entries, ""))
	assert.Empty(t, EmoteGroup(entries, "doze"))
}
