package parameter

// Heart field defaults, all physics quantities in screen pixels per tick
const (
	HeartCount        = 20
	HeartVisualRadius = 200.0
	// HeartPadding is added to the visual radius to form the collision radius
	HeartPadding = 20.0

	HeartRepulsionForce = 2.0
	// HeartDamping must stay below 1, otherwise the field gains energy every tick
	HeartDamping   = 0.98
	HeartMaxSpeed  = 25.0
	HeartGravity   = 1.0
	HeartBounce    = 0.9
	HeartMargin    = 20.0
	HeartLayerGate = 1.0

	// HeartCollisionInterval runs the collision pass every Nth frame
	HeartCollisionInterval = 1

	// Staged activation, milliseconds after assets are ready
	HeartStartDelayMs    = 1500
	HeartSpawnIntervalMs = 150

	// Spawn band above the viewport: y in [offset - h*range, offset)
	HeartSpawnOffsetY = -300.0
	HeartSpawnRangeY  = 2.0

	// HeartInitialVelocityX is the full width of the random horizontal velocity spread
	HeartInitialVelocityX = 2.0

	// HeartRotationSpread is the full width of the random spin rate, radians per tick
	HeartRotationSpread = 0.005
	// HeartSpinTiltRatio scales spin into the X axis relative to Y
	HeartSpinTiltRatio = 0.3
)

// HeartLayers are the discrete depth planes, world units
var HeartLayers = []float64{0, -3, -6}

// Initial mesh tilt spread per axis, radians (full width)
const (
	HeartTiltSpreadX = 1.2
	HeartTiltSpreadY = 1.5
	HeartTiltSpreadZ = 0.8
)

// Rigid-body variant defaults (per second units, cp space)
const (
	RigidGravity          = 1800.0
	RigidElasticity       = 0.3
	RigidFriction         = 0.1
	RigidIterations       = 10
	RigidGroundOffset     = 200.0
	RigidWallOffset       = 200.0
	RigidGroundThickness  = 60.0
	RigidWallThickness    = 60.0
	RigidWallWidth        = 50000.0
	RigidWallHeightFactor = 2.0
	RigidAngularSpread    = 3.0 // rad/s full width
	RigidCountPerLayer    = 20
	RigidVisualRadius     = 140.0
	RigidPadding          = 8.0
	RigidSpawnRangeY      = 6.0
	RigidSpawnOffsetY     = -500.0
)
