package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"scoutsync/internal/store/metadata"
)

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the scoutsync console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("scout> ")
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Commands:")
			fmt.Println("  name [scout name]                      set your scout name")
			fmt.Println("  sync                                   sync with the server")
			fmt.Println("  matches                                list scheduled matches")
			fmt.Println("  teams                                  list teams at the event")
			fmt.Println("  show   match|driver <m> <t> | pit <t>  print an entry")
			fmt.Println("  set    <ref> <field> <kind> <value>    set a field (bool/enum/counter/text/timer)")
			fmt.Println("  clear  <ref> <field>                   clear a field")
			fmt.Println("  attach <ref> <field> <path>            attach an image to a field")
			fmt.Println("  scouts <ref>                           who scouted this entry")
			fmt.Println("  top                                    show the leaderboard")
			fmt.Println("  exit")
		case "name":
			a.setName(ctx, args)
		case "sync":
			a.runSync(ctx)
		case "matches":
			a.listMatches(ctx)
		case "teams":
			a.listTeams(ctx)
		case "show":
			a.showEntry(ctx, args)
		case "set":
			a.setField(ctx, args)
		case "clear":
			a.clearField(ctx, args)
		case "attach":
			a.attachImage(ctx, args)
		case "scouts":
			a.showScouts(ctx, args)
		case "top":
			a.showLeaderboard(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) setName(ctx context.Context, args []string) {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = GetSimpleText(a.reader, "Enter your scout name", os.Stdout)
		if err != nil || name == "" {
			fmt.Println("name unchanged")
			return
		}
	}
	if err := a.repos.Metadata.Set(ctx, metadata.KeyScoutName, []byte(name)); err != nil {
		a.log.Error(ctx, "failed to store scout name", "error", err)
		return
	}
	fmt.Printf("scouting as %q\n", name)
}

func (a *App) runSync(ctx context.Context) {
	if err := a.sync.Sync(ctx); err != nil {
		fmt.Println("sync failed")
		return
	}
	fmt.Println("sync complete")
}

func (a *App) listMatches(ctx context.Context) {
	info := a.waitEventInfo(ctx)
	if info == nil {
		fmt.Println("no event data, is the server reachable?")
		return
	}
	for _, m := range info.Matches {
		fmt.Printf("match %d: red %v vs blue %v\n", m.ID, m.Red, m.Blue)
	}
}

func (a *App) listTeams(ctx context.Context) {
	info := a.waitEventInfo(ctx)
	if info == nil {
		fmt.Println("no event data, is the server reachable?")
		return
	}
	for _, t := range info.Teams {
		fmt.Printf("%d  %s\n", t.Number, t.Name)
	}
}

func (a *App) showLeaderboard(ctx context.Context) {
	board, err := a.api.Leaderboard(ctx)
	if err != nil {
		fmt.Println("leaderboard unavailable")
		return
	}
	fmt.Println(string(board))
}
