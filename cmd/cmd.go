// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration scaffolding.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the generated config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles identity operations against the Auth0 tenant.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in and manage your session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in through the hosted login page",
				Action: r.AuthLogin,
			},
			{
				Name:   "signup",
				Usage:  "Create an account through the hosted signup page",
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Check whether a usable session exists",
				Action: r.AuthStatus,
			},
		},
	}
}

// uploadCommand submits a clothing photo to the backend.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload a clothing photo for cataloging",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Action: r.UploadImage,
	}
}

// fetchCommand fetches and renders the closet inventory.
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "fetch",
		Aliases: []string{"ls"},
		Usage:   "Fetch your closet and list items grouped by photo",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.StringFlag{
				Name:    "save",
				Aliases: []string{"s"},
				Usage:   "Save the inventory snapshot to a file",
			},
		},
		Action: r.ClosetFetch,
	}
}

// exportCommand writes the inventory to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export your closet inventory to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: closet_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent image download workers",
				Value: 3,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Image downloads per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "images",
				Usage: "Download each photo alongside the inventory",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive gallery.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse your closet in an interactive terminal UI",
		Action: r.TUI,
	}
}
