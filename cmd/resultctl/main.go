// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package resultctl provides a command-line client for the results
// REST service.
package main

import (
	"fmt"

	"github.com/aulaweb/go-results/restclient"
	"github.com/aulaweb/go-results/restdata"
	"github.com/aulaweb/go-results/restserver"
	"github.com/urfave/cli"
)

// connect builds a REST client from the global flags.  Every command
// that talks to the server calls this; the token command does not,
// since it only needs the shared secret.
func connect(c *cli.Context) (*restclient.Client, error) {
	return restclient.New(c.GlobalString("url"), c.GlobalString("token"))
}

func printResult(r restdata.ResultData) {
	fmt.Printf("%d\t%d\t%s\t%s\n", r.ID, r.Result, r.User.Email, r.Date)
}

var mintToken = cli.Command{
	Name:  "token",
	Usage: "mint a bearer token for a user",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "secret",
			Usage: "shared token-signing secret",
		},
		cli.StringFlag{
			Name:  "email",
			Usage: "email of the user to mint a token for",
		},
	},
	Action: func(c *cli.Context) error {
		auth := restserver.Authorizer{Secret: []byte(c.String("secret"))}
		token, err := auth.Token(c.String("email"))
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var listResults = cli.Command{
	Name:  "list",
	Usage: "list all visible results",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "sort",
			Usage: "sort order: id, result, or date",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := connect(c)
		if err != nil {
			return err
		}
		list, _, err := client.List(c.String("sort"), "")
		if err != nil {
			return err
		}
		for _, item := range list.Results {
			printResult(item.Result)
		}
		return nil
	},
}

var getResult = cli.Command{
	Name:  "get",
	Usage: "show one result",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "id",
			Usage: "result ID",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := connect(c)
		if err != nil {
			return err
		}
		result, tag, err := client.Get(c.Int("id"), "")
		if err != nil {
			return err
		}
		printResult(result)
		fmt.Println("etag:", tag)
		return nil
	},
}

var createResult = cli.Command{
	Name:  "create",
	Usage: "record a new result owned by the caller",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "value",
			Usage: "measured value",
		},
		cli.StringFlag{
			Name:  "date",
			Usage: "timestamp as YYYY-MM-DD HH:MM:SS",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := connect(c)
		if err != nil {
			return err
		}
		result, _, err := client.Create(c.Int("value"), c.String("date"))
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var replaceResult = cli.Command{
	Name:  "replace",
	Usage: "overwrite a result's value and date",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "id",
			Usage: "result ID",
		},
		cli.IntFlag{
			Name:  "value",
			Usage: "new measured value",
		},
		cli.StringFlag{
			Name:  "date",
			Usage: "new timestamp as YYYY-MM-DD HH:MM:SS",
		},
		cli.StringFlag{
			Name:  "etag",
			Usage: "entity tag from a previous fetch; fetched fresh if empty",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := connect(c)
		if err != nil {
			return err
		}
		tag := c.String("etag")
		if tag == "" {
			_, tag, err = client.Get(c.Int("id"), "")
			if err != nil {
				return err
			}
		}
		result, _, err := client.Replace(c.Int("id"), c.Int("value"), c.String("date"), tag)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var reassignResult = cli.Command{
	Name:  "reassign",
	Usage: "transfer a result to another user (admin only)",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "id",
			Usage: "result ID",
		},
		cli.StringFlag{
			Name:  "user",
			Usage: "email of the new owner",
		},
		cli.StringFlag{
			Name:  "etag",
			Usage: "optional entity tag from a previous fetch",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := connect(c)
		if err != nil {
			return err
		}
		result, _, err := client.ReassignOwner(c.Int("id"), c.String("user"), c.String("etag"))
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var deleteResult = cli.Command{
	Name:  "delete",
	Usage: "delete a result",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "id",
			Usage: "result ID",
		},
	},
	Action: func(c *cli.Context) error {
		client, err := connect(c)
		if err != nil {
			return err
		}
		return client.Delete(c.Int("id"))
	},
}

func main() {
	app := cli.NewApp()
	app.Usage = "manage results over the REST API"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Value:  "http://localhost:8080/",
			Usage:  "base URL of the results server",
			EnvVar: "RESULTS_URL",
		},
		cli.StringFlag{
			Name:   "token",
			Usage:  "bearer token for authentication",
			EnvVar: "RESULTS_TOKEN",
		},
	}
	app.Commands = []cli.Command{
		mintToken,
		listResults,
		getResult,
		createResult,
		replaceResult,
		reassignResult,
		deleteResult,
	}
	app.RunAndExitOnError()
}
