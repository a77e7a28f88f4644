package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func printProfile(p schema.Profile) {
	rows := [][2]string{
		{"User", p.UserID},
		{"Name", p.FullName},
		{"Account", p.AccountName},
	}
	if fo, ok := p.FrontOffice(); ok {
		rows = append(rows,
			[2]string{"Hotel", fo.HotelName},
			[2]string{"System date", fo.FOSysDate},
			[2]string{"Shift", fo.FOShift},
		)
	}
	printKV(rows)

	if len(p.Apps) == 0 {
		return
	}
	fmt.Println()
	apps := make([][]string, 0, len(p.Apps))
	for _, app := range p.Apps {
		apps = append(apps, []string{strconv.Itoa(app.Idx), app.Code, app.Name, strings.Join(app.GrantedAPI, ",")})
	}
	printTable([]string{"IDX", "CODE", "NAME", "GRANTED"}, apps)
}

func printStatus(items []schema.RoomAttendantStatusCount) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Status, item.Text, strconv.Itoa(item.Sec), strconv.Itoa(item.Total)})
	}
	printTable([]string{"STATUS", "TEXT", "SEC", "TOTAL"}, rows)
}

func printRooms(items []schema.RoomSearchRecord) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		var flags []string
		if item.DoNotDisturb() {
			flags = append(flags, "DND")
		}
		if item.OutOfOrder() {
			flags = append(flags, "OOO")
		}
		rows = append(rows, []string{
			item.Room,
			item.RoomType,
			item.StatusHK,
			item.StatusFO,
			item.GuestName,
			item.DepartureDate,
			strings.Join(flags, ","),
		})
	}
	printTable([]string{"ROOM", "TYPE", "HK", "FO", "GUEST", "DEPARTURE", "FLAGS"}, rows)
}

func printUpdateResults(items []schema.RoomUpdateResult) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Room, item.StatusHK, item.EditUser, item.EditDate, item.LogNote})
	}
	printTable([]string{"ROOM", "HK", "USER", "DATE", "NOTE"}, rows)
}
