package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"lost-pets/internal/config"
	"lost-pets/internal/domain/pets"
	"lost-pets/internal/platform/imagedata"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	favColor   = color.New(color.FgRed, color.Bold)
	idColor    = color.New(color.Faint)
	okColor    = color.New(color.FgGreen)
	errorColor = color.New(color.FgRed)
)

func newAddCmd(a *app) *cobra.Command {
	var name, petType, gender, imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a lost pet",
		Example: `  petsctl add --name Rex --type dog --gender male --image ./rex.png`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := pets.FormInput{Name: name, Type: petType, Gender: gender}
			if strings.TrimSpace(imagePath) != "" {
				img, err := pets.ImageFromPath(config.ExpandHome(imagePath))
				if err != nil {
					return fmt.Errorf("image: %w", err)
				}
				in.Image = img
			}

			p, err := a.svc.Submit(cmd.Context(), in)
			if err != nil {
				var verr *pets.ValidationError
				if errors.As(err, &verr) {
					for _, field := range verr.FieldNames() {
						errorColor.Fprintf(a.err, "  %s: %s\n", field, verr.Fields[field])
					}
					return pets.ErrInvalidInput
				}
				return fmt.Errorf("could not create pet: %w", err)
			}

			okColor.Fprint(a.out, "created ")
			a.printf("%s %s\n", p.Name, idColor.Sprint(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Pet name (at least 3 characters)")
	cmd.Flags().StringVar(&petType, "type", "", "Pet type ("+joinTypes()+")")
	cmd.Flags().StringVar(&gender, "gender", string(pets.GenderMale), "male|female")
	cmd.Flags().StringVar(&imagePath, "image", "", "PNG/JPEG image path (max 5MB)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var favorites, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lost pets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.svc.List(cmd.Context())
			if err != nil {
				// igual que la vista: se muestra vacío y se avisa
				a.log.Warn("could not read pet list", map[string]any{"err": err})
				items = []pets.PetRecord{}
			}
			if favorites {
				items = pets.Favorites(items)
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(items) == 0 {
				if favorites {
					a.printf("no favorites\n")
				} else {
					a.printf("no lost pets\n")
				}
				return nil
			}
			for _, p := range items {
				printRow(a, p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorites")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored records as JSON")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			heart := "no"
			if p.IsFavorite {
				heart = favColor.Sprint("yes")
			}
			a.printf("id:       %s\n", p.ID)
			a.printf("name:     %s\n", p.Name)
			a.printf("type:     %s\n", p.Type)
			a.printf("gender:   %s\n", p.Gender)
			a.printf("favorite: %s\n", heart)
			if mime, b, err := imagedata.Decode(p.Image); err == nil {
				a.printf("image:    %s, %d bytes\n", mime, len(b))
			} else {
				a.printf("image:    unreadable (%v)\n", err)
			}
			return nil
		},
	}
}

func newFavoriteCmd(a *app) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark (or with --off unmark) a pet as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.svc.SetFavorite(cmd.Context(), args[0], !off)
			if err != nil {
				return err
			}
			for _, p := range items {
				if p.ID == args[0] {
					printRow(a, p)
					return nil
				}
			}
			// id inexistente: la lista queda igual, no es error
			a.printf("no pet with id %s, nothing changed\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Unmark instead of mark")
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle the favorite flag of a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRow(a, p)
			return nil
		},
	}
}

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "types",
		Short:       "List valid pet types",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipStore": "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, t := range pets.TypeOptions() {
				a.printf("%s\n", t)
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the config file",
		Annotations: map[string]string{"skipStore": "true"},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config file (sqlite backend)",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipStore": "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			path := a.flagConfig
			if strings.TrimSpace(path) == "" {
				path = os.Getenv("PETS_CONFIG")
			}
			if strings.TrimSpace(path) == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force)", path)
			}

			cfg := config.Defaults()
			cfg.Storage.Backend = config.BackendSQLite
			if strings.TrimSpace(a.flagDB) != "" {
				cfg.Storage.SQLitePath = a.flagDB
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			okColor.Fprint(a.out, "wrote ")
			a.printf("%s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func printRow(a *app, p pets.PetRecord) {
	heart := " "
	if p.IsFavorite {
		heart = favColor.Sprint("♥")
	}
	a.printf("%s %s  %-20s %-8s %s\n", heart, idColor.Sprint(p.ID), p.Name, p.Type, p.Gender)
}

func joinTypes() string {
	opts := pets.TypeOptions()
	parts := make([]string, len(opts))
	for i, t := range opts {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}
