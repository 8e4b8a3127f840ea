// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rfpdesk/rfpmail/display"
	"github.com/rfpdesk/rfpmail/domain"
	"github.com/rfpdesk/rfpmail/ranking"
	"github.com/rfpdesk/rfpmail/sender"

	"github.com/spf13/cobra"
)

var (
	vendorName    string
	vendorEmail   string
	vendorContact string

	rfpTitle        string
	rfpDescription  string
	rfpItems        []string
	rfpBudget       float64
	rfpDeliveryDays int
	rfpPayment      string
	rfpWarranty     string
	rfpVendors      []int64

	proposalRfp     int64
	messagesOutcome string
)

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Manage vendors",
}

var vendorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a vendor",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(strings.TrimSpace(vendorName)) == 0 {
			return errors.New("--name is required")
		}

		vendor := &domain.Vendor{Name: strings.TrimSpace(vendorName), Email: vendorEmail, ContactPerson: vendorContact}
		err := store.CreateVendor(cmd.Context(), vendor)
		if err != nil {
			return err
		}

		display.SuccessMsg(cmd.OutOrStdout(), "Added vendor %d: %s", vendor.Id, vendor.Name)
		return nil
	},
}

var vendorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vendors, err := store.ListVendors(cmd.Context())
		if err != nil {
			return err
		}

		display.Vendors(cmd.OutOrStdout(), vendors)
		return nil
	},
}

var rfpCmd = &cobra.Command{
	Use:   "rfp",
	Short: "Manage requests for proposal",
}

var rfpAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an rfp",
	Long:  `Add an rfp. Items are given as "name:quantity[:specs]", e.g. --item "Laptop:10:16GB RAM".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(strings.TrimSpace(rfpTitle)) == 0 {
			return errors.New("--title is required")
		}

		items, err := parseItems(rfpItems)
		if err != nil {
			return err
		}

		rfp := &domain.Rfp{
			Title:        strings.TrimSpace(rfpTitle),
			Description:  rfpDescription,
			Items:        items,
			PaymentTerms: rfpPayment,
			Warranty:     rfpWarranty,
		}
		if cmd.Flags().Changed("budget") {
			rfp.Budget = &rfpBudget
		}
		if cmd.Flags().Changed("delivery-days") {
			rfp.DeliveryDays = &rfpDeliveryDays
		}

		err = store.CreateRfp(cmd.Context(), rfp)
		if err != nil {
			return err
		}

		display.SuccessMsg(cmd.OutOrStdout(), "Added rfp %d: %s", rfp.Id, rfp.Title)
		return nil
	},
}

func parseItems(specs []string) ([]domain.RfpItem, error) {
	items := []domain.RfpItem{}
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 3)
		item := domain.RfpItem{Name: strings.TrimSpace(parts[0]), Quantity: 1}
		if len(item.Name) == 0 {
			return nil, fmt.Errorf("item %q has no name", spec)
		}
		if len(parts) > 1 {
			qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("item %q has an invalid quantity", spec)
			}
			item.Quantity = qty
		}
		if len(parts) > 2 {
			item.Specs = strings.TrimSpace(parts[2])
		}
		items = append(items, item)
	}
	return items, nil
}

var rfpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rfps, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rfps, err := store.ListRfps(cmd.Context())
		if err != nil {
			return err
		}

		display.Rfps(cmd.OutOrStdout(), rfps)
		return nil
	},
}

var rfpSendCmd = &cobra.Command{
	Use:   "send RFP_ID",
	Short: "Mail an rfp to vendors, all vendors unless --vendor is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid rfp id %q", args[0])
		}

		rfp, err := store.GetRfp(cmd.Context(), id)
		if err != nil {
			return err
		}

		vendors := []*domain.Vendor{}
		if len(rfpVendors) == 0 {
			vendors, err = store.ListVendors(cmd.Context())
			if err != nil {
				return err
			}
		}
		for _, vendorId := range rfpVendors {
			vendor, err := store.GetVendor(cmd.Context(), vendorId)
			if err != nil {
				return err
			}
			vendors = append(vendors, vendor)
		}

		s := sender.NewSender(sender.Options{
			Host:     conf.Smtp.Host,
			Port:     conf.Smtp.Port,
			User:     conf.Smtp.User,
			Password: conf.Smtp.Password,
			From:     conf.Smtp.From,
		})
		sent, err := s.SendRfp(cmd.Context(), rfp, vendors)
		if sent > 0 {
			display.SuccessMsg(cmd.OutOrStdout(), "Sent %q to %d of %d vendors", sender.Subject(rfp), sent, len(vendors))
		}
		return err
	},
}

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Inspect proposals",
}

var proposalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List proposals",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rfpId *int64
		if cmd.Flags().Changed("rfp") {
			rfpId = &proposalRfp
		}

		proposals, err := store.ListProposals(cmd.Context(), rfpId)
		if err != nil {
			return err
		}

		display.Proposals(cmd.OutOrStdout(), proposals)
		return nil
	},
}

var proposalRankCmd = &cobra.Command{
	Use:   "rank RFP_ID",
	Short: "Rank the proposals for an rfp by price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid rfp id %q", args[0])
		}

		rfp, err := store.GetRfp(cmd.Context(), id)
		if err != nil {
			return err
		}

		proposals, err := store.ListProposals(cmd.Context(), &rfp.Id)
		if err != nil {
			return err
		}

		display.Header(cmd.OutOrStdout(), sender.Subject(rfp))
		display.Ranking(cmd.OutOrStdout(), ranking.Rank(proposals))
		return nil
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Inspect the processed message ledger",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := store.ListMessages(cmd.Context(), domain.Outcome(messagesOutcome))
		if err != nil {
			return err
		}

		display.Messages(cmd.OutOrStdout(), messages)
		return nil
	},
}

func init() {
	vendorAddCmd.Flags().StringVar(&vendorName, "name", "", "Vendor name")
	vendorAddCmd.Flags().StringVar(&vendorEmail, "email", "", "Vendor email address")
	vendorAddCmd.Flags().StringVar(&vendorContact, "contact", "", "Contact person")
	vendorCmd.AddCommand(vendorAddCmd, vendorListCmd)

	rfpAddCmd.Flags().StringVar(&rfpTitle, "title", "", "Title, vendors reply to \"RFP: <title>\"")
	rfpAddCmd.Flags().StringVar(&rfpDescription, "description", "", "Description")
	rfpAddCmd.Flags().StringArrayVar(&rfpItems, "item", nil, "Item as name:quantity[:specs], repeatable")
	rfpAddCmd.Flags().Float64Var(&rfpBudget, "budget", 0, "Total budget")
	rfpAddCmd.Flags().IntVar(&rfpDeliveryDays, "delivery-days", 0, "Required delivery time in days")
	rfpAddCmd.Flags().StringVar(&rfpPayment, "payment-terms", "", "Payment terms")
	rfpAddCmd.Flags().StringVar(&rfpWarranty, "warranty", "", "Required warranty")
	rfpSendCmd.Flags().Int64SliceVar(&rfpVendors, "vendor", nil, "Vendor id, repeatable")
	rfpCmd.AddCommand(rfpAddCmd, rfpListCmd, rfpSendCmd)

	proposalListCmd.Flags().Int64Var(&proposalRfp, "rfp", 0, "Only proposals for this rfp")
	proposalCmd.AddCommand(proposalListCmd, proposalRankCmd)

	messagesListCmd.Flags().StringVar(&messagesOutcome, "outcome", "", "Only messages with this outcome (ingested, stale, malformed, empty, degraded)")
	messagesCmd.AddCommand(messagesListCmd)

	rootCmd.AddCommand(vendorCmd, rfpCmd, proposalCmd, messagesCmd)
}
