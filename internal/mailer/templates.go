package mailer

const verificationTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Verify your email</h2>
  <p>Enter this code to verify your account:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{code}</p>
  <p>The code expires in 24 hours.</p>
</div>`

const welcomeCouponTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome, {name}!</h2>
  <p>Here is {percent}% off your first order:</p>
  <p style="font-size: 22px; font-weight: bold;">{couponCode}</p>
  <p>Apply it at checkout. One use only.</p>
</div>`

const orderSuccessTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Thanks for your order, {name}!</h2>
  <p>Order <strong>{orderId}</strong> is confirmed.</p>
  <p>Total charged: <strong>{total}</strong></p>
  <p>We'll email you again when it ships.</p>
</div>`

const orderDispatchedTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Your order is on its way, {name}!</h2>
  <p>Order <strong>{orderId}</strong> was dispatched.</p>
  <p>Estimated delivery: <strong>{etaDate}</strong></p>
  {items}
</div>`
