package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/scriptbench/scriptbench/config"
	"github.com/scriptbench/scriptbench/storage"
)

var usersDB string

var usersCmd = &cobra.Command{
	Use:   "users [username]",
	Short: "List registered accounts, or show one account's run history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if usersDB != "" {
			cfg.DBPath = usersDB
		}

		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			return showUserHistory(store, args[0])
		}
		return listUsers(store)
	},
}

func listUsers(store *storage.Store) error {
	users, err := store.ListUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		pterm.Info.Println("No registered users")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(usersTable(users)).Render()
}

func showUserHistory(store *storage.Store, username string) error {
	user, err := store.UserByName(username)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no such user: %s", username)
	}

	history, err := store.History(user.ID)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printfln("Run history: %s", user.Username)
	if len(history) == 0 {
		pterm.Info.Println("No runs recorded")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(historyTable(history)).Render()
}

func usersTable(users []storage.User) pterm.TableData {
	data := pterm.TableData{{"ID", "Username", "Created"}}
	for _, u := range users {
		data = append(data, []string{
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return data
}

func historyTable(history []storage.HistoryEntry) pterm.TableData {
	data := pterm.TableData{{"File", "Type", "Exec (s)", "Memory (MB)", "Score", "Risk", "When"}}
	for _, e := range history {
		data = append(data, []string{
			e.Filename,
			e.Filetype,
			strconv.FormatFloat(e.ExecTime, 'f', 4, 64),
			strconv.FormatFloat(e.PeakMemoryMB, 'f', 2, 64),
			strconv.Itoa(e.SecurityScore),
			string(e.RiskLevel),
			e.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	return data
}

func init() {
	usersCmd.Flags().StringVar(&usersDB, "db", "", "Path to the sqlite database")
	rootCmd.AddCommand(usersCmd)
}
