package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/primary"
	"github.com/example/shiftlog/internal/wire"
)

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"req"},
		Short:   "Manage service requests of the active shift",
	}

	cmd.AddCommand(requestAddCmd())
	cmd.AddCommand(requestEditCmd())
	cmd.AddCommand(requestRmCmd())
	cmd.AddCommand(requestLsCmd())
	cmd.AddCommand(requestStampCmd())
	cmd.AddCommand(requestFinishCmd())

	return cmd
}

// requestFlags binds the editable request fields.
func requestFlags(cmd *cobra.Command, in *primary.RequestInput) {
	cmd.Flags().StringVarP(&in.Num, "num", "n", "", "Request number (digits)")
	cmd.Flags().StringVarP(&in.Type, "type", "t", "", "Request type")
	cmd.Flags().StringVar(&in.KUSP, "kusp", "", "KUSP registration number")
	cmd.Flags().StringVarP(&in.Addr, "addr", "a", "", "Address")
	cmd.Flags().StringVarP(&in.Desc, "desc", "d", "", "Description")
	cmd.Flags().StringVar(&in.T1, "t1", "", "Dispatch time HH:MM")
	cmd.Flags().StringVar(&in.T2, "t2", "", "Arrival time HH:MM")
	cmd.Flags().StringVar(&in.T3, "t3", "", "Completion time HH:MM")
	cmd.Flags().StringVarP(&in.Result, "result", "r", "", "Result")
	completeFromDictionary(cmd, "type", models.DictTypes)
	completeFromDictionary(cmd, "result", models.DictResults)
}

func requestAddCmd() *cobra.Command {
	var in primary.RequestInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a request",
		Long: `Add a request to the top of the active shift.

Examples:
  shiftlog request add --num 1042 --addr "Lenina 5" --type noise --t1 22:10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.AddRequest(cmd.Context(), in)
		},
	}

	requestFlags(cmd, &in)
	return cmd
}

func requestEditCmd() *cobra.Command {
	var in primary.RequestInput

	cmd := &cobra.Command{
		Use:   "edit [request-id]",
		Short: "Edit a request; unspecified fields keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			current, err := adapter.FindRequest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			merged := primary.RequestInput{
				Num:    current.Num,
				Type:   current.Type,
				KUSP:   current.KUSP,
				Addr:   current.Addr,
				Desc:   current.Desc,
				T1:     models.StringValue(current.T1),
				T2:     models.StringValue(current.T2),
				T3:     models.StringValue(current.T3),
				Result: current.Result,
			}
			f := cmd.Flags()
			for name, pair := range map[string][2]*string{
				"num":    {&merged.Num, &in.Num},
				"type":   {&merged.Type, &in.Type},
				"kusp":   {&merged.KUSP, &in.KUSP},
				"addr":   {&merged.Addr, &in.Addr},
				"desc":   {&merged.Desc, &in.Desc},
				"t1":     {&merged.T1, &in.T1},
				"t2":     {&merged.T2, &in.T2},
				"t3":     {&merged.T3, &in.T3},
				"result": {&merged.Result, &in.Result},
			} {
				if f.Changed(name) {
					*pair[0] = *pair[1]
				}
			}

			return adapter.EditRequest(cmd.Context(), args[0], merged)
		},
	}

	requestFlags(cmd, &in)
	return cmd
}

func requestRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [request-id]",
		Aliases: []string{"delete"},
		Short:   "Delete a request",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.RemoveRequest(cmd.Context(), args[0])
		},
	}
}

func requestLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [query]",
		Aliases: []string{"list"},
		Short:   "List requests, optionally filtered by a search query",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ListRequests(cmd.Context(), firstArg(args))
		},
	}
}

func requestStampCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "stamp [request-id] [t1|t2]",
		Short: "Stamp dispatch (t1) or arrival (t2) time if still empty",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Stamp(cmd.Context(), args[0], args[1], at)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time HH:MM (default: now)")
	return cmd
}

func requestFinishCmd() *cobra.Command {
	var result string

	cmd := &cobra.Command{
		Use:   "finish [request-id]",
		Short: "Stamp completion time and set the result if still empty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Finish(cmd.Context(), args[0], result)
		},
	}

	cmd.Flags().StringVarP(&result, "result", "r", "", "Result")
	completeFromDictionary(cmd, "result", models.DictResults)
	return cmd
}

// DeliveredCmd returns the delivered command
func DeliveredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delivered",
		Aliases: []string{"dlv"},
		Short:   "Manage persons delivered during the active shift",
	}

	cmd.AddCommand(deliveredAddCmd())
	cmd.AddCommand(deliveredEditCmd())
	cmd.AddCommand(deliveredRmCmd())
	cmd.AddCommand(deliveredLsCmd())

	return cmd
}

func deliveredFlags(cmd *cobra.Command, in *primary.DeliveredInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Time, "time", "", "Delivery time HH:MM")
	cmd.Flags().StringVarP(&in.Reason, "reason", "r", "", "Reason")
	completeFromDictionary(cmd, "reason", models.DictReasons)
}

func deliveredAddCmd() *cobra.Command {
	var in primary.DeliveredInput

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a delivered person",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !cmd.Flags().Changed("name") {
				in.Name = args[0]
			}
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.AddDelivered(cmd.Context(), in)
		},
	}

	deliveredFlags(cmd, &in)
	return cmd
}

func deliveredEditCmd() *cobra.Command {
	var in primary.DeliveredInput

	cmd := &cobra.Command{
		Use:   "edit [entry-id]",
		Short: "Edit a delivered entry; unspecified fields keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			current, err := adapter.FindDelivered(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			merged := primary.DeliveredInput{
				Name:   current.Name,
				Time:   models.StringValue(current.Time),
				Reason: current.Reason,
			}
			if cmd.Flags().Changed("name") {
				merged.Name = in.Name
			}
			if cmd.Flags().Changed("time") {
				merged.Time = in.Time
			}
			if cmd.Flags().Changed("reason") {
				merged.Reason = in.Reason
			}
			return adapter.EditDelivered(cmd.Context(), args[0], merged)
		},
	}

	deliveredFlags(cmd, &in)
	return cmd
}

func deliveredRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [entry-id]",
		Aliases: []string{"delete"},
		Short:   "Delete a delivered entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.RemoveDelivered(cmd.Context(), args[0])
		},
	}
}

func deliveredLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [query]",
		Aliases: []string{"list"},
		Short:   "List delivered entries",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ListDelivered(cmd.Context(), firstArg(args))
		},
	}
}

// AssistCmd returns the assist command
func AssistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assist",
		Short: "Manage assists by external services",
	}

	cmd.AddCommand(assistAddCmd())
	cmd.AddCommand(assistEditCmd())
	cmd.AddCommand(assistRmCmd())
	cmd.AddCommand(assistLsCmd())

	return cmd
}

func assistFlags(cmd *cobra.Command, in *primary.AssistInput) {
	cmd.Flags().StringVarP(&in.Service, "service", "s", "", "Service name")
	cmd.Flags().StringVar(&in.Note, "note", "", "Note")
	cmd.Flags().StringVar(&in.Start, "start", "", "Start time HH:MM")
	cmd.Flags().StringVar(&in.End, "end", "", "End time HH:MM (earlier than start means next day)")
	cmd.Flags().BoolVar(&in.Confirm, "confirm", false, "Accept an interval longer than 12 hours")
	completeFromDictionary(cmd, "service", models.DictServices)
}

func assistAddCmd() *cobra.Command {
	var in primary.AssistInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an assist",
		Long: `Add an assist interval. An end time earlier than the start is taken to be
on the next day.

Examples:
  shiftlog assist add --service EMS --start 23:30 --end 00:15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.AddAssist(cmd.Context(), in)
		},
	}

	assistFlags(cmd, &in)
	return cmd
}

func assistEditCmd() *cobra.Command {
	var in primary.AssistInput

	cmd := &cobra.Command{
		Use:   "edit [assist-id]",
		Short: "Edit an assist; unspecified fields keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			current, err := adapter.FindAssist(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			merged := primary.AssistInput{
				Service: current.Service,
				Note:    current.Note,
				Start:   current.Start,
				End:     current.End,
				Confirm: in.Confirm,
			}
			f := cmd.Flags()
			if f.Changed("service") {
				merged.Service = in.Service
			}
			if f.Changed("note") {
				merged.Note = in.Note
			}
			if f.Changed("start") {
				merged.Start = in.Start
			}
			if f.Changed("end") {
				merged.End = in.End
			}
			return adapter.EditAssist(cmd.Context(), args[0], merged)
		},
	}

	assistFlags(cmd, &in)
	return cmd
}

func assistRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [assist-id]",
		Aliases: []string{"delete"},
		Short:   "Delete an assist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.RemoveAssist(cmd.Context(), args[0])
		},
	}
}

func assistLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [query]",
		Aliases: []string{"list"},
		Short:   "List assists with the shift total",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.RecordAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.ListAssists(cmd.Context(), firstArg(args))
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
