package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"scoutsync/internal/models"
)

var errUsage = errors.New("usage: <match|driver> <matchID> <teamID> | pit <teamID>")

// recordRef addresses one entry record from command arguments.
type recordRef struct {
	kind    string // "match", "pit", "driver"
	matchID int64
	teamID  int64
}

// parseRecordRef consumes the leading record reference from args and
// returns the remaining arguments.
func parseRecordRef(args []string) (recordRef, []string, error) {
	if len(args) == 0 {
		return recordRef{}, nil, errUsage
	}
	ref := recordRef{kind: args[0]}
	switch ref.kind {
	case "match", "driver":
		if len(args) < 3 {
			return recordRef{}, nil, errUsage
		}
		matchID, err1 := strconv.ParseInt(args[1], 10, 64)
		teamID, err2 := strconv.ParseInt(args[2], 10, 64)
		if err1 != nil || err2 != nil {
			return recordRef{}, nil, errUsage
		}
		ref.matchID, ref.teamID = matchID, teamID
		return ref, args[3:], nil
	case "pit":
		if len(args) < 2 {
			return recordRef{}, nil, errUsage
		}
		teamID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return recordRef{}, nil, errUsage
		}
		ref.teamID = teamID
		return ref, args[2:], nil
	default:
		return recordRef{}, nil, errUsage
	}
}

// loadEntry returns the stored record for ref, or a fresh empty one bound
// to the current event. A stored record from another event is replaced by a
// fresh one, mirroring how entry forms reset between events.
func (a *App) loadEntry(ctx context.Context, ref recordRef, info *models.EventInfo) (models.Record, error) {
	switch ref.kind {
	case "match":
		e, err := a.repos.Entries.GetMatch(ctx, ref.matchID, ref.teamID)
		if err != nil {
			return nil, err
		}
		if e == nil || !e.Data.SameEvent(info.Year, info.Event) {
			e = &models.MatchEntry{MatchID: ref.matchID, TeamID: ref.teamID, Data: models.NewEntryData(info.Year, info.Event)}
		}
		return e, nil
	case "pit":
		e, err := a.repos.Entries.GetPit(ctx, ref.teamID)
		if err != nil {
			return nil, err
		}
		if e == nil || !e.Data.SameEvent(info.Year, info.Event) {
			e = &models.PitEntry{TeamID: ref.teamID, Data: models.NewEntryData(info.Year, info.Event)}
		}
		return e, nil
	case "driver":
		e, err := a.repos.Entries.GetDriver(ctx, ref.matchID, ref.teamID)
		if err != nil {
			return nil, err
		}
		if e == nil || !e.Data.SameEvent(info.Year, info.Event) {
			e = &models.DriverEntry{MatchID: ref.matchID, TeamID: ref.teamID, Data: models.NewEntryData(info.Year, info.Event)}
		}
		return e, nil
	default:
		return nil, errUsage
	}
}

func (a *App) saveEntry(ctx context.Context, rec models.Record) error {
	switch e := rec.(type) {
	case *models.MatchEntry:
		return a.repos.Entries.PutMatch(ctx, e)
	case *models.PitEntry:
		return a.repos.Entries.PutPit(ctx, e)
	case *models.DriverEntry:
		return a.repos.Entries.PutDriver(ctx, e)
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}
}

// requireEditable checks the preconditions for editing: a cached event
// roster and a configured scout name. Both are recoverable by user action.
func (a *App) requireEditable(ctx context.Context) (*models.EventInfo, string, bool) {
	info := a.eventInfo(ctx)
	if info == nil {
		fmt.Println("sync required: no event data cached yet")
		return nil, "", false
	}
	scout := a.scoutName(ctx)
	if scout == "" {
		fmt.Println("set your scout name first (name <your name>)")
		return nil, "", false
	}
	return info, scout, true
}

// parseTypedValue builds a value payload from command arguments. Image
// values are created by attach, not set.
func parseTypedValue(kind string, args []string) (models.TypedValue, error) {
	switch models.ValueKind(kind) {
	case models.KindBool:
		if len(args) != 1 {
			return nil, fmt.Errorf("bool takes one value")
		}
		b, err := strconv.ParseBool(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", args[0])
		}
		return models.BoolValue{Value: b}, nil
	case models.KindEnum:
		if len(args) != 1 {
			return nil, fmt.Errorf("enum takes one option index")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid option index %q", args[0])
		}
		return models.EnumValue{Value: n}, nil
	case models.KindCounter:
		if len(args) != 1 {
			return nil, fmt.Errorf("counter takes one count")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid count %q", args[0])
		}
		return models.CounterValue{Count: n}, nil
	case models.KindText:
		if len(args) == 0 {
			return nil, fmt.Errorf("text takes the text to store")
		}
		return models.TextValue{Text: strings.Join(args, " ")}, nil
	case models.KindTimer:
		if len(args) != 1 {
			return nil, fmt.Errorf("timer takes seconds")
		}
		sec, err := strconv.ParseFloat(args[0], 64)
		if err != nil || sec < 0 {
			return nil, fmt.Errorf("invalid seconds %q", args[0])
		}
		return models.TimerValue{Seconds: sec}, nil
	case models.KindImage:
		return nil, fmt.Errorf("use attach to add images")
	default:
		return nil, fmt.Errorf("unknown field kind %q", kind)
	}
}

func (a *App) setField(ctx context.Context, args []string) {
	info, scout, ok := a.requireEditable(ctx)
	if !ok {
		return
	}
	ref, rest, err := parseRecordRef(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	if len(rest) < 2 {
		fmt.Println("usage: set <ref> <field> <kind> <value...>")
		return
	}
	fieldID, kind := rest[0], rest[1]

	typed, err := parseTypedValue(kind, rest[2:])
	if err != nil {
		fmt.Println(err)
		return
	}
	value, err := models.WrapValue(typed, scout, time.Now().UnixMilli())
	if err != nil {
		fmt.Println(err)
		return
	}

	rec, err := a.loadEntry(ctx, ref, info)
	if err != nil {
		a.log.Error(ctx, "failed to load entry", "error", err)
		return
	}
	rec.Entry().SetField(fieldID, value)
	if err := a.saveEntry(ctx, rec); err != nil {
		a.log.Error(ctx, "failed to save entry", "error", err)
		return
	}
	fmt.Printf("saved %s.%s\n", rec.StorageKey(), fieldID)
}

func (a *App) clearField(ctx context.Context, args []string) {
	info, _, ok := a.requireEditable(ctx)
	if !ok {
		return
	}
	ref, rest, err := parseRecordRef(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	if len(rest) != 1 {
		fmt.Println("usage: clear <ref> <field>")
		return
	}

	rec, err := a.loadEntry(ctx, ref, info)
	if err != nil {
		a.log.Error(ctx, "failed to load entry", "error", err)
		return
	}
	rec.Entry().ClearField(rest[0], time.Now().UnixMilli())
	if err := a.saveEntry(ctx, rec); err != nil {
		a.log.Error(ctx, "failed to save entry", "error", err)
		return
	}
	fmt.Printf("cleared %s.%s\n", rec.StorageKey(), rest[0])
}

func (a *App) showEntry(ctx context.Context, args []string) {
	info := a.eventInfo(ctx)
	if info == nil {
		fmt.Println("sync required: no event data cached yet")
		return
	}
	ref, _, err := parseRecordRef(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	rec, err := a.loadEntry(ctx, ref, info)
	if err != nil {
		a.log.Error(ctx, "failed to load entry", "error", err)
		return
	}
	data := rec.Entry()
	if len(data.Entries) == 0 {
		fmt.Printf("%s: empty\n", rec.StorageKey())
		return
	}

	fields := make([]string, 0, len(data.Entries))
	for id := range data.Entries {
		fields = append(fields, id)
	}
	sort.Strings(fields)
	for _, id := range fields {
		v := data.Entries[id]
		fmt.Printf("  %-20s %s  (by %s)\n", id, formatValue(v), v.Scout)
	}
}

func (a *App) showScouts(ctx context.Context, args []string) {
	info := a.eventInfo(ctx)
	if info == nil {
		fmt.Println("sync required: no event data cached yet")
		return
	}
	ref, _, err := parseRecordRef(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	var scouts []string
	switch ref.kind {
	case "match":
		scouts, err = a.repos.Entries.MatchScouts(ctx, ref.matchID, ref.teamID, info.Year, info.Event)
	case "pit":
		scouts, err = a.repos.Entries.PitScouts(ctx, ref.teamID, info.Year, info.Event)
	case "driver":
		scouts, err = a.repos.Entries.DriverScouts(ctx, ref.matchID, ref.teamID, info.Year, info.Event)
	}
	if err != nil {
		a.log.Error(ctx, "failed to load scouts", "error", err)
		return
	}
	if len(scouts) == 0 {
		fmt.Println("not scouted yet")
		return
	}
	fmt.Println(strings.Join(scouts, ", "))
}

// formatValue renders one value for display. The switch is exhaustive over
// value kinds.
func formatValue(v models.EntryValue) string {
	typed, err := v.Unwrap()
	if err != nil {
		return "<unreadable>"
	}
	switch x := typed.(type) {
	case models.BoolValue:
		return strconv.FormatBool(x.Value)
	case models.EnumValue:
		return fmt.Sprintf("option %d", x.Value)
	case models.CounterValue:
		return strconv.Itoa(x.Count)
	case models.TextValue:
		return strconv.Quote(x.Text)
	case models.TimerValue:
		return fmt.Sprintf("%.1fs", x.Seconds)
	case models.ImageValue:
		local := 0
		for _, img := range x.Images {
			if img.Local {
				local++
			}
		}
		return fmt.Sprintf("%d image(s), %d pending upload", len(x.Images), local)
	default:
		return "<unknown>"
	}
}
