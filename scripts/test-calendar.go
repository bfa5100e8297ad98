package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/calendar"
	"github.com/pfrederiksen/event-announcer/internal/language"
	"github.com/pfrederiksen/event-announcer/internal/timezone"
)

func main() {
	conv, err := timezone.NewConverter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading time zones: %v\n", err)
		os.Exit(1)
	}

	// Create a sample announcement one week from now
	start := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)
	en := language.MustLookup("EN")
	a := &announcement.Announcement{
		ID:     uuid.New(),
		Title:  "Raid Night",
		Source: en,
		Start:  start,
		Times:  conv.ConvertTime(start),
		Translations: []announcement.Translation{
			{Language: en, Name: "Raid Night", Description: "Bring potions, food and repair gold", Identity: true},
		},
	}

	icsContent := calendar.GenerateICS(a, calendar.DefaultDuration)

	// Write to file (owner read/write only for security)
	filename := "test-" + calendar.FileName
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", filename)
	fmt.Println("Import it into a calendar app to check the local times:")
	for _, lt := range a.Times {
		fmt.Printf("  %-24s %s\n", lt.Zone.DisplayName, lt.String())
	}
}
