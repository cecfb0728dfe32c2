package form

// StmtKind is the closed set of recognized form statements. The builder and
// the patch engine both dispatch on it exhaustively; adding a statement means
// extending this enum and the vocabulary table below.
type StmtKind uint8

const (
	StmtUnknown StmtKind = iota
	StmtOpenWindow
	StmtGadget
	StmtOpenGadgetList
	StmtCloseGadgetList
	StmtAddGadgetItem
	StmtAddGadgetColumn
	StmtCreateMenu
	StmtMenuTitle
	StmtMenuItem
	StmtMenuBar
	StmtOpenSubMenu
	StmtCloseSubMenu
	StmtCreateToolBar
	StmtToolBarImageButton
	StmtToolBarSeparator
	StmtCreateStatusBar
	StmtAddStatusBarField
	StmtStatusBarText
)

func (k StmtKind) String() string {
	switch k {
	case StmtOpenWindow:
		return "OpenWindow"
	case StmtGadget:
		return "Gadget"
	case StmtOpenGadgetList:
		return "OpenGadgetList"
	case StmtCloseGadgetList:
		return "CloseGadgetList"
	case StmtAddGadgetItem:
		return "AddGadgetItem"
	case StmtAddGadgetColumn:
		return "AddGadgetColumn"
	case StmtCreateMenu:
		return "CreateMenu"
	case StmtMenuTitle:
		return "MenuTitle"
	case StmtMenuItem:
		return "MenuItem"
	case StmtMenuBar:
		return "MenuBar"
	case StmtOpenSubMenu:
		return "OpenSubMenu"
	case StmtCloseSubMenu:
		return "CloseSubMenu"
	case StmtCreateToolBar:
		return "CreateToolBar"
	case StmtToolBarImageButton:
		return "ToolBarImageButton"
	case StmtToolBarSeparator:
		return "ToolBarSeparator"
	case StmtCreateStatusBar:
		return "CreateStatusBar"
	case StmtAddStatusBarField:
		return "AddStatusBarField"
	case StmtStatusBarText:
		return "StatusBarText"
	}
	return "Unknown"
}

// IsSectionOpener reports whether the statement opens a menu, toolbar,
// statusbar or window section. Any of these closes the previously open
// section when walking the call stream.
func (k StmtKind) IsSectionOpener() bool {
	switch k {
	case StmtCreateMenu, StmtCreateToolBar, StmtCreateStatusBar, StmtOpenWindow:
		return true
	}
	return false
}

// GadgetKind names a control constructor. The value is the exact statement
// name, which keeps serialization and patch lookups trivial.
type GadgetKind string

const (
	KindButton        GadgetKind = "ButtonGadget"
	KindButtonImage   GadgetKind = "ButtonImageGadget"
	KindString        GadgetKind = "StringGadget"
	KindText          GadgetKind = "TextGadget"
	KindCheckBox      GadgetKind = "CheckBoxGadget"
	KindOption        GadgetKind = "OptionGadget"
	KindListView      GadgetKind = "ListViewGadget"
	KindListIcon      GadgetKind = "ListIconGadget"
	KindComboBox      GadgetKind = "ComboBoxGadget"
	KindImage         GadgetKind = "ImageGadget"
	KindSpin          GadgetKind = "SpinGadget"
	KindTrackBar      GadgetKind = "TrackBarGadget"
	KindProgressBar   GadgetKind = "ProgressBarGadget"
	KindScrollBar     GadgetKind = "ScrollBarGadget"
	KindEditor        GadgetKind = "EditorGadget"
	KindTree          GadgetKind = "TreeGadget"
	KindDate          GadgetKind = "DateGadget"
	KindCalendar      GadgetKind = "CalendarGadget"
	KindHyperLink     GadgetKind = "HyperLinkGadget"
	KindIPAddress     GadgetKind = "IPAddressGadget"
	KindFrame         GadgetKind = "FrameGadget"
	KindCanvas        GadgetKind = "CanvasGadget"
	KindWeb           GadgetKind = "WebGadget"
	KindExplorerList  GadgetKind = "ExplorerListGadget"
	KindExplorerTree  GadgetKind = "ExplorerTreeGadget"
	KindExplorerCombo GadgetKind = "ExplorerComboGadget"
	KindContainer     GadgetKind = "ContainerGadget"
	KindPanel         GadgetKind = "PanelGadget"
	KindScrollArea    GadgetKind = "ScrollAreaGadget"
	KindSplitter      GadgetKind = "SplitterGadget"
)

// gadgetTraits records per-kind structure: which argument (if any) carries
// display text, and whether the control nests children.
type gadgetTraits struct {
	container bool
	panel     bool
	// textArg is the positional index of the text argument after the four
	// geometry fields, or -1 when the kind has none (e.g. ImageGadget).
	textArg int
}

var gadgetKinds = map[GadgetKind]gadgetTraits{
	KindButton:        {textArg: 5},
	KindButtonImage:   {textArg: -1},
	KindString:        {textArg: 5},
	KindText:          {textArg: 5},
	KindCheckBox:      {textArg: 5},
	KindOption:        {textArg: 5},
	KindListView:      {textArg: -1},
	KindListIcon:      {textArg: 5},
	KindComboBox:      {textArg: -1},
	KindImage:         {textArg: -1},
	KindSpin:          {textArg: -1},
	KindTrackBar:      {textArg: -1},
	KindProgressBar:   {textArg: -1},
	KindScrollBar:     {textArg: -1},
	KindEditor:        {textArg: -1},
	KindTree:          {textArg: -1},
	KindDate:          {textArg: 5},
	KindCalendar:      {textArg: -1},
	KindHyperLink:     {textArg: 5},
	KindIPAddress:     {textArg: -1},
	KindFrame:         {textArg: 5},
	KindCanvas:        {textArg: -1},
	KindWeb:           {textArg: 5},
	KindExplorerList:  {textArg: 5},
	KindExplorerTree:  {textArg: 5},
	KindExplorerCombo: {textArg: 5},
	KindContainer:     {container: true, textArg: -1},
	KindPanel:         {container: true, panel: true, textArg: -1},
	KindScrollArea:    {container: true, textArg: -1},
	KindSplitter:      {textArg: -1},
}

// IsContainer reports whether the kind opens an implicit gadget list.
func (k GadgetKind) IsContainer() bool {
	return gadgetKinds[k].container
}

// IsPanel reports whether items added to the kind select tabs.
func (k GadgetKind) IsPanel() bool {
	return gadgetKinds[k].panel
}

// TextArg returns the positional index of the kind's text argument, or -1.
func (k GadgetKind) TextArg() int {
	t, ok := gadgetKinds[k]
	if !ok {
		return -1
	}
	return t.textArg
}

var stmtNames = map[string]StmtKind{
	"OpenWindow":         StmtOpenWindow,
	"OpenGadgetList":     StmtOpenGadgetList,
	"CloseGadgetList":    StmtCloseGadgetList,
	"AddGadgetItem":      StmtAddGadgetItem,
	"AddGadgetColumn":    StmtAddGadgetColumn,
	"CreateMenu":         StmtCreateMenu,
	"MenuTitle":          StmtMenuTitle,
	"MenuItem":           StmtMenuItem,
	"MenuBar":            StmtMenuBar,
	"OpenSubMenu":        StmtOpenSubMenu,
	"CloseSubMenu":       StmtCloseSubMenu,
	"CreateToolBar":      StmtCreateToolBar,
	"ToolBarImageButton": StmtToolBarImageButton,
	"ToolBarSeparator":   StmtToolBarSeparator,
	"CreateStatusBar":    StmtCreateStatusBar,
	"AddStatusBarField":  StmtAddStatusBarField,
	"StatusBarText":      StmtStatusBarText,
}

// LookupStmt classifies a call name. Names are case-sensitive and exact;
// anything unrecognized is StmtUnknown and skipped by the builder.
func LookupStmt(name string) (StmtKind, GadgetKind) {
	if kind, ok := stmtNames[name]; ok {
		return kind, ""
	}
	gk := GadgetKind(name)
	if _, ok := gadgetKinds[gk]; ok {
		return StmtGadget, gk
	}
	return StmtUnknown, ""
}
