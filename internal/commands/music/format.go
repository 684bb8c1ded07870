package music

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
	"github.com/keshon/dare/internal/music/player"
	"github.com/keshon/dare/internal/music/session"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/storage"
)

const maxListed = 10

func trackLine(t track.Track) string {
	title := t.DisplayName()
	if strings.HasPrefix(t.Locator, "http://") || strings.HasPrefix(t.Locator, "https://") {
		return fmt.Sprintf("[%s](%s)", title, t.Locator)
	}
	return title
}

func addedTitle(startsNow bool, n int) string {
	switch {
	case startsNow:
		return player.StatusPlaying.StringEmoji() + " Now Playing"
	case n == 1:
		return "➕ Track Added"
	}
	return fmt.Sprintf("➕ %d Tracks Added", n)
}

func describeTracks(tracks []track.Track) string {
	var b strings.Builder
	for i, t := range tracks {
		if i == maxListed {
			fmt.Fprintf(&b, "…and %d more", len(tracks)-maxListed)
			break
		}
		fmt.Fprintf(&b, "🎶 %s\n", trackLine(t))
	}
	return strings.TrimRight(b.String(), "\n")
}

func volumePercent(v float64) int {
	return int(math.Round(v * 100))
}

func queueEmbed(snap session.Snapshot, volume float64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎵 Queue",
		Color: core.EmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s %s · volume %d%%", snap.Status.StringEmoji(), snap.Status, volumePercent(volume)),
		},
	}

	if snap.Current == nil && len(snap.Pending) == 0 {
		embed.Description = "Nothing is playing and the queue is empty."
		return embed
	}

	if snap.Current != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Now playing",
			Value: trackLine(*snap.Current),
		})
	}

	if len(snap.Pending) > 0 {
		var b strings.Builder
		for i, t := range snap.Pending {
			if i == maxListed {
				fmt.Fprintf(&b, "…and %d more", len(snap.Pending)-maxListed)
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, trackLine(t))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Up next (%d)", len(snap.Pending)),
			Value: strings.TrimRight(b.String(), "\n"),
		})
	}
	return embed
}

// historyDescription lists the most recent track first.
func historyDescription(records []storage.TrackHistoryRecord) string {
	if len(records) == 0 {
		return "No tracks played yet."
	}
	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		line := trackLine(track.Track{Locator: r.Locator, Title: r.Title})
		fmt.Fprintf(&b, "<t:%d:R> %s\n", r.PlayedAt.Unix(), line)
	}
	return strings.TrimRight(b.String(), "\n")
}

// isWebMedia reports whether source is an absolute http(s) link. Members never
// get to point the decoder at local files.
func isWebMedia(source string) bool {
	u, err := url.Parse(strings.TrimSpace(source))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
