package plugin

// Kind names a record type.
type Kind string

const (
	// KindCell is an interior or exterior cell record.
	KindCell Kind = "CELL"
	// KindLight is a light source record.
	KindLight Kind = "LIGH"
)

// Record is implemented by every record kind the store indexes.
type Record interface {
	Key() FormKey
	Kind() Kind
}

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
	A uint8 `json:"a,omitempty" yaml:"a,omitempty"`
}

// CellFlag is the cell DATA flag set.
type CellFlag uint16

const (
	CellInterior          CellFlag = 0x0001
	CellHasWater          CellFlag = 0x0002
	CellCantTravel        CellFlag = 0x0004
	CellNoLODWater        CellFlag = 0x0008
	CellPublicArea        CellFlag = 0x0020
	CellHandChanged       CellFlag = 0x0040
	CellShowSky           CellFlag = 0x0080
	CellUseSkyLighting    CellFlag = 0x0100
	CellWarnToLeave       CellFlag = 0x0200
	CellSunlightShadows   CellFlag = 0x0400
	CellDistantLODOnly    CellFlag = 0x0800
	CellPlayerFollowerCut CellFlag = 0x1000
)

// Has reports whether every bit of flag is set.
func (f CellFlag) Has(flag CellFlag) bool {
	return f&flag == flag
}

// AmbientColors is the directional ambient lighting block of a cell.
type AmbientColors struct {
	DirectionalXPlus  Color   `json:"directional_x_plus" yaml:"directional_x_plus"`
	DirectionalXMinus Color   `json:"directional_x_minus" yaml:"directional_x_minus"`
	DirectionalYPlus  Color   `json:"directional_y_plus" yaml:"directional_y_plus"`
	DirectionalYMinus Color   `json:"directional_y_minus" yaml:"directional_y_minus"`
	DirectionalZPlus  Color   `json:"directional_z_plus" yaml:"directional_z_plus"`
	DirectionalZMinus Color   `json:"directional_z_minus" yaml:"directional_z_minus"`
	Specular          Color   `json:"specular" yaml:"specular"`
	Scale             float32 `json:"scale" yaml:"scale"`
}

// CellLighting is the interior lighting descriptor (XCLL) of a cell.
type CellLighting struct {
	AmbientColor          Color          `json:"ambient_color" yaml:"ambient_color"`
	DirectionalColor      Color          `json:"directional_color" yaml:"directional_color"`
	FogNearColor          Color          `json:"fog_near_color" yaml:"fog_near_color"`
	FogFarColor           Color          `json:"fog_far_color" yaml:"fog_far_color"`
	FogNear               float32        `json:"fog_near" yaml:"fog_near"`
	FogFar                float32        `json:"fog_far" yaml:"fog_far"`
	FogClipDistance       float32        `json:"fog_clip_distance" yaml:"fog_clip_distance"`
	FogPower              float32        `json:"fog_power" yaml:"fog_power"`
	FogMax                float32        `json:"fog_max" yaml:"fog_max"`
	DirectionalRotationXY int32          `json:"directional_rotation_xy" yaml:"directional_rotation_xy"`
	DirectionalRotationZ  int32          `json:"directional_rotation_z" yaml:"directional_rotation_z"`
	DirectionalFade       float32        `json:"directional_fade" yaml:"directional_fade"`
	LightFadeBegin        float32        `json:"light_fade_begin" yaml:"light_fade_begin"`
	LightFadeEnd          float32        `json:"light_fade_end" yaml:"light_fade_end"`
	Inherits              uint32         `json:"inherits,omitempty" yaml:"inherits,omitempty"`
	AmbientColors         *AmbientColors `json:"ambient_colors,omitempty" yaml:"ambient_colors,omitempty"`
}

// DeepCopy returns an independent copy; nil stays nil.
func (l *CellLighting) DeepCopy() *CellLighting {
	if l == nil {
		return nil
	}
	out := *l
	if l.AmbientColors != nil {
		colors := *l.AmbientColors
		out.AmbientColors = &colors
	}
	return &out
}

// Cell is a cell record. Lighting is the mergeable field; nil means the
// record carries no lighting descriptor.
type Cell struct {
	FormKey          FormKey       `json:"form_key" yaml:"form_key"`
	EditorID         string        `json:"editor_id,omitempty" yaml:"editor_id,omitempty"`
	Name             string        `json:"name,omitempty" yaml:"name,omitempty"`
	Flags            CellFlag      `json:"flags" yaml:"flags"`
	Lighting         *CellLighting `json:"lighting,omitempty" yaml:"lighting,omitempty"`
	LightingTemplate *FormKey      `json:"lighting_template,omitempty" yaml:"lighting_template,omitempty"`
	Water            *FormKey      `json:"water,omitempty" yaml:"water,omitempty"`
	WaterHeight      float32       `json:"water_height,omitempty" yaml:"water_height,omitempty"`
	ImageSpace       *FormKey      `json:"image_space,omitempty" yaml:"image_space,omitempty"`
	AcousticSpace    *FormKey      `json:"acoustic_space,omitempty" yaml:"acoustic_space,omitempty"`
	Music            *FormKey      `json:"music,omitempty" yaml:"music,omitempty"`
	Location         *FormKey      `json:"location,omitempty" yaml:"location,omitempty"`
}

// Key implements Record.
func (c *Cell) Key() FormKey { return c.FormKey }

// Kind implements Record.
func (c *Cell) Kind() Kind { return KindCell }

// IsInterior reports whether the interior flag is set.
func (c *Cell) IsInterior() bool {
	return c.Flags.Has(CellInterior)
}

// DeepCopy returns an independent copy of the cell.
func (c *Cell) DeepCopy() *Cell {
	if c == nil {
		return nil
	}
	out := *c
	out.Lighting = c.Lighting.DeepCopy()
	out.LightingTemplate = copyFormKey(c.LightingTemplate)
	out.Water = copyFormKey(c.Water)
	out.ImageSpace = copyFormKey(c.ImageSpace)
	out.AcousticSpace = copyFormKey(c.AcousticSpace)
	out.Music = copyFormKey(c.Music)
	out.Location = copyFormKey(c.Location)
	return &out
}

// LightFlag is the light DATA flag set.
type LightFlag uint32

const (
	LightDynamic       LightFlag = 0x0001
	LightCanBeCarried  LightFlag = 0x0002
	LightNegative      LightFlag = 0x0004
	LightFlicker       LightFlag = 0x0008
	LightOffByDefault  LightFlag = 0x0020
	LightFlickerSlow   LightFlag = 0x0040
	LightPulse         LightFlag = 0x0080
	LightPulseSlow     LightFlag = 0x0100
	LightSpotLight     LightFlag = 0x0200
	LightShadowSpot    LightFlag = 0x0400
	LightShadowHemi    LightFlag = 0x0800
	LightShadowOmni    LightFlag = 0x1000
	LightPortalStrict  LightFlag = 0x2000
	LightNonShadowSpot LightFlag = 0x4000
)

// Light is a light source record.
type Light struct {
	FormKey                   FormKey   `json:"form_key" yaml:"form_key"`
	EditorID                  string    `json:"editor_id,omitempty" yaml:"editor_id,omitempty"`
	Name                      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Model                     string    `json:"model,omitempty" yaml:"model,omitempty"`
	Time                      int32     `json:"time" yaml:"time"`
	Radius                    uint32    `json:"radius" yaml:"radius"`
	Color                     Color     `json:"color" yaml:"color"`
	Flags                     LightFlag `json:"flags" yaml:"flags"`
	FalloffExponent           float32   `json:"falloff_exponent" yaml:"falloff_exponent"`
	FOV                       float32   `json:"fov" yaml:"fov"`
	NearClip                  float32   `json:"near_clip" yaml:"near_clip"`
	FlickerPeriod             float32   `json:"flicker_period,omitempty" yaml:"flicker_period,omitempty"`
	FlickerIntensityAmplitude float32   `json:"flicker_intensity_amplitude,omitempty" yaml:"flicker_intensity_amplitude,omitempty"`
	FlickerMovementAmplitude  float32   `json:"flicker_movement_amplitude,omitempty" yaml:"flicker_movement_amplitude,omitempty"`
	FadeValue                 float32   `json:"fade_value" yaml:"fade_value"`
	Value                     uint32    `json:"value,omitempty" yaml:"value,omitempty"`
	Weight                    float32   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Sound                     *FormKey  `json:"sound,omitempty" yaml:"sound,omitempty"`
	// DuplicateOf records the light this record was duplicated from, if any.
	DuplicateOf *FormKey `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
}

// Key implements Record.
func (l *Light) Key() FormKey { return l.FormKey }

// Kind implements Record.
func (l *Light) Kind() Kind { return KindLight }

// DeepCopy returns an independent copy of the light.
func (l *Light) DeepCopy() *Light {
	if l == nil {
		return nil
	}
	out := *l
	out.Sound = copyFormKey(l.Sound)
	out.DuplicateOf = copyFormKey(l.DuplicateOf)
	return &out
}

func copyFormKey(fk *FormKey) *FormKey {
	if fk == nil {
		return nil
	}
	out := *fk
	return &out
}
