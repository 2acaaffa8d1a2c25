package main

import (
	"github.com/spf13/cobra"

	"github.com/Chapsvision-dev/rsbctl/internal/compute"
	"github.com/Chapsvision-dev/rsbctl/internal/output"
)

func newImageOffersCmd(g *globalOptions) *cobra.Command {
	var location, publisher string
	cmd := &cobra.Command{
		Use:   "image-offers",
		Short: "List the VM image offers of a publisher in a location",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			lister, err := newOfferLister(cfg)
			if err != nil {
				return err
			}
			offers, err := compute.ListOffers(cmd.Context(), lister, location, publisher)
			if err != nil {
				return err
			}

			t := output.Table{Header: []string{"Offer", "Publisher", "Location", "Id"}}
			for _, o := range offers {
				t.Rows = append(t.Rows, []string{o.Offer, o.PublisherName, o.Location, o.ID})
			}
			return output.Write(cmd.OutOrStdout(), cfg.Output, offers, t)
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "Azure location, e.g. \"West Europe\"")
	cmd.Flags().StringVarP(&publisher, "publisher", "p", "", "image publisher name, e.g. Canonical")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("publisher")
	return cmd
}
